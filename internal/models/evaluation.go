package models

// ProjectField is the domain a student project belongs to.
type ProjectField string

// StudentLevel is the education stage of the submitting student.
type StudentLevel string

// Material is one kind of artefact handed in with a project.
type Material string

const (
	ProjectFieldTechnology ProjectField = "technology"
	ProjectFieldArtDesign  ProjectField = "art_design"
	ProjectFieldBusiness   ProjectField = "business"
	ProjectFieldResearch   ProjectField = "research"
	ProjectFieldSocial     ProjectField = "social"
)

const (
	StudentLevelJuniorHigh    StudentLevel = "junior_high"
	StudentLevelSeniorHigh    StudentLevel = "senior_high"
	StudentLevelUndergraduate StudentLevel = "undergraduate"
	StudentLevelGraduate      StudentLevel = "graduate"
)

const (
	MaterialCode        Material = "code"
	MaterialDocs        Material = "docs"
	MaterialDemoVideo   Material = "demo_video"
	MaterialDesignFiles Material = "design_files"
	MaterialDataReport  Material = "data_report"
)

// ProjectFields lists the selectable fields in display order.
var ProjectFields = []ProjectField{
	ProjectFieldTechnology,
	ProjectFieldArtDesign,
	ProjectFieldBusiness,
	ProjectFieldResearch,
	ProjectFieldSocial,
}

// StudentLevels lists the selectable levels in display order.
var StudentLevels = []StudentLevel{
	StudentLevelJuniorHigh,
	StudentLevelSeniorHigh,
	StudentLevelUndergraduate,
	StudentLevelGraduate,
}

// Materials lists the submission material vocabulary in display order.
var Materials = []Material{
	MaterialCode,
	MaterialDocs,
	MaterialDemoVideo,
	MaterialDesignFiles,
	MaterialDataReport,
}

var fieldLabels = map[ProjectField]string{
	ProjectFieldTechnology: "技术开发",
	ProjectFieldArtDesign:  "艺术设计",
	ProjectFieldBusiness:   "商业策划",
	ProjectFieldResearch:   "科学研究",
	ProjectFieldSocial:     "社会调查",
}

var levelLabels = map[StudentLevel]string{
	StudentLevelJuniorHigh:    "初中",
	StudentLevelSeniorHigh:    "高中",
	StudentLevelUndergraduate: "本科",
	StudentLevelGraduate:      "研究生",
}

var materialLabels = map[Material]string{
	MaterialCode:        "代码",
	MaterialDocs:        "文档",
	MaterialDemoVideo:   "演示视频",
	MaterialDesignFiles: "设计图",
	MaterialDataReport:  "数据报告",
}

// Label returns the human readable name shown in the form and reports.
// Unknown values fall back to the raw identifier.
func (f ProjectField) Label() string {
	if label, ok := fieldLabels[f]; ok {
		return label
	}
	return string(f)
}

// Label returns the human readable name of the level.
func (l StudentLevel) Label() string {
	if label, ok := levelLabels[l]; ok {
		return label
	}
	return string(l)
}

// Label returns the human readable name of the material.
func (m Material) Label() string {
	if label, ok := materialLabels[m]; ok {
		return label
	}
	return string(m)
}

// EvaluationRequest is the request-scoped description of a student project.
type EvaluationRequest struct {
	ProjectName         string
	ProjectDescription  string
	ProjectField        ProjectField
	StudentLevel        StudentLevel
	SubmissionMaterials []Material
}

// MaterialLabels returns the display labels of the submitted materials in order.
func (r EvaluationRequest) MaterialLabels() []string {
	labels := make([]string, 0, len(r.SubmissionMaterials))
	for _, material := range r.SubmissionMaterials {
		labels = append(labels, material.Label())
	}
	return labels
}

// DedupeMaterials collapses repeated materials, keeping the first occurrence.
func DedupeMaterials(materials []Material) []Material {
	seen := make(map[Material]struct{}, len(materials))
	result := make([]Material, 0, len(materials))
	for _, material := range materials {
		if _, ok := seen[material]; ok {
			continue
		}
		seen[material] = struct{}{}
		result = append(result, material)
	}
	return result
}

// DefaultEvaluationRequest returns the values the form is pre-filled with.
func DefaultEvaluationRequest() EvaluationRequest {
	return EvaluationRequest{
		ProjectField:        ProjectFieldTechnology,
		StudentLevel:        StudentLevelUndergraduate,
		SubmissionMaterials: []Material{MaterialCode, MaterialDocs},
	}
}

// ExampleEvaluationRequest is the sample project offered on the form page.
func ExampleEvaluationRequest() EvaluationRequest {
	return EvaluationRequest{
		ProjectName:         "智能校园导航系统",
		ProjectDescription:  "基于微信小程序的校园导航应用，集成教室查询、路径规划和活动通知功能。使用云开发技术实现，包含前端界面设计和后端数据处理。",
		ProjectField:        ProjectFieldTechnology,
		StudentLevel:        StudentLevelUndergraduate,
		SubmissionMaterials: []Material{MaterialCode, MaterialDocs, MaterialDemoVideo},
	}
}
