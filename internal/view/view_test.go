package view

import (
	"bytes"
	"html/template"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gema-project-evaluator/internal/dto"
	"github.com/noah-isme/gema-project-evaluator/internal/models"
)

func TestMarkdownRendererRendersReport(t *testing.T) {
	renderer := NewMarkdownRenderer()

	html, err := renderer.Render("# 报告\n\n- **综合评分**: 8.2/10\n✅ 优势一  \n✅ 优势二\n\n---")
	require.NoError(t, err)
	require.Contains(t, html, "<h1")
	require.Contains(t, html, "<strong>综合评分</strong>")
	require.Contains(t, html, "<br")
	require.Contains(t, html, "<hr")
}

func TestMarkdownRendererSanitises(t *testing.T) {
	renderer := NewMarkdownRenderer()

	html, err := renderer.Render("hello <script>alert(1)</script> [x](javascript:alert(1))")
	require.NoError(t, err)
	require.NotContains(t, html, "<script>")
	require.NotContains(t, html, "javascript:")
}

func TestPageRender(t *testing.T) {
	page, err := NewPage()
	require.NoError(t, err)

	mode := dto.ModeResponse{Reason: "未配置API Token或工作流ID"}
	data := PageData{
		Title:   "学生项目智能评价系统",
		Mode:    mode,
		Form:    dto.NewEvaluationRequest(models.ExampleEvaluationRequest()),
		Options: dto.NewOptionsResponse(mode),
	}

	var buf bytes.Buffer
	require.NoError(t, page.Render(&buf, data))

	out := buf.String()
	require.Contains(t, out, "当前模式: 模拟演示")
	require.Contains(t, out, "未配置API Token或工作流ID")
	require.Contains(t, out, `value="智能校园导航系统"`)
	require.Contains(t, out, `请点击"开始评估"按钮生成评价报告...`)

	data.Mode = dto.ModeResponse{Remote: true, Provider: "Coze"}
	data.Report = template.HTML("<h1>结果</h1>")
	data.HasReport = true
	buf.Reset()
	require.NoError(t, page.Render(&buf, data))
	require.Contains(t, buf.String(), "当前模式: Coze工作流")
	require.Contains(t, buf.String(), "<h1>结果</h1>")
}
