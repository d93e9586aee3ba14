package service

import (
	"fmt"
	"strings"

	"github.com/noah-isme/gema-project-evaluator/internal/models"
)

// MockDisclaimer closes every simulated report.
const MockDisclaimer = "*注：这是模拟评价，请配置Coze API Token和工作流ID后获取真实评价*"

// mockScores are placeholders, not a computed rating.
var mockScores = []struct {
	Name  string
	Score string
}{
	{"综合评分", "8.2/10"},
	{"创新性", "7.5/10"},
	{"技术难度", "8.0/10"},
	{"完成度", "8.5/10"},
	{"文档质量", "7.0/10"},
}

var mockStrengths = []string{
	"项目构思清晰，目标明确",
	"技术选型合理，符合当前技术趋势",
	"功能设计完整，用户体验考虑周到",
}

var mockSuggestions = []string{
	"可以进一步优化项目文档结构",
	"考虑添加更多创新功能点",
	"建议完善测试用例",
}

var mockFollowUps = []string{
	"继续深入相关技术的学习",
	"参与更多实际项目积累经验",
	"关注行业最新发展趋势",
}

// EvaluateMock renders the simulated evaluation report. It is deterministic and
// inserts the description verbatim.
func EvaluateMock(req models.EvaluationRequest) string {
	field := req.ProjectField.Label()

	var b strings.Builder
	b.WriteString("# 🎓 项目评价报告 (模拟数据)\n\n")

	b.WriteString("## 项目信息\n")
	fmt.Fprintf(&b, "- **项目名称**: %s\n", req.ProjectName)
	fmt.Fprintf(&b, "- **项目领域**: %s\n", field)
	fmt.Fprintf(&b, "- **学生水平**: %s\n", req.StudentLevel.Label())
	fmt.Fprintf(&b, "- **提交材料**: %s\n\n", strings.Join(req.MaterialLabels(), ", "))

	b.WriteString("## 项目描述\n")
	b.WriteString(req.ProjectDescription)
	b.WriteString("\n\n")

	b.WriteString("## 模拟评分结果\n")
	for _, score := range mockScores {
		fmt.Fprintf(&b, "- **%s**: %s\n", score.Name, score.Score)
	}
	b.WriteString("\n")

	b.WriteString("## 项目优势\n")
	for _, item := range mockStrengths {
		fmt.Fprintf(&b, "✅ %s  \n", item)
	}
	b.WriteString("\n")

	b.WriteString("## 改进建议\n")
	for _, item := range mockSuggestions {
		fmt.Fprintf(&b, "📝 %s  \n", item)
	}
	b.WriteString("\n")

	b.WriteString("## 学习收获\n")
	fmt.Fprintf(&b, "通过本项目，学生能够掌握**%s**领域的基础知识和实践技能，提升问题解决能力和团队协作能力。\n\n", field)

	b.WriteString("## 后续建议\n")
	for i, item := range mockFollowUps {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item)
	}
	b.WriteString("\n---\n\n")
	b.WriteString(MockDisclaimer)
	b.WriteString("\n")

	return b.String()
}
