package dto

import "github.com/noah-isme/gema-project-evaluator/internal/models"

// EvaluationRequest is the payload accepted by the form and the JSON API.
type EvaluationRequest struct {
	ProjectName         string   `json:"project_name" form:"project_name"`
	ProjectDescription  string   `json:"project_description" form:"project_description"`
	ProjectField        string   `json:"project_field" form:"project_field" validate:"required,oneof=technology art_design business research social"`
	StudentLevel        string   `json:"student_level" form:"student_level" validate:"required,oneof=junior_high senior_high undergraduate graduate"`
	SubmissionMaterials []string `json:"submission_materials" form:"submission_materials" validate:"dive,oneof=code docs demo_video design_files data_report"`
}

// ToModel converts a validated payload into the domain request.
func (r EvaluationRequest) ToModel() models.EvaluationRequest {
	materials := make([]models.Material, 0, len(r.SubmissionMaterials))
	for _, material := range r.SubmissionMaterials {
		materials = append(materials, models.Material(material))
	}

	return models.EvaluationRequest{
		ProjectName:         r.ProjectName,
		ProjectDescription:  r.ProjectDescription,
		ProjectField:        models.ProjectField(r.ProjectField),
		StudentLevel:        models.StudentLevel(r.StudentLevel),
		SubmissionMaterials: models.DedupeMaterials(materials),
	}
}

// NewEvaluationRequest builds a payload from a domain request.
func NewEvaluationRequest(req models.EvaluationRequest) EvaluationRequest {
	materials := make([]string, 0, len(req.SubmissionMaterials))
	for _, material := range req.SubmissionMaterials {
		materials = append(materials, string(material))
	}

	return EvaluationRequest{
		ProjectName:         req.ProjectName,
		ProjectDescription:  req.ProjectDescription,
		ProjectField:        string(req.ProjectField),
		StudentLevel:        string(req.StudentLevel),
		SubmissionMaterials: materials,
	}
}

// EvaluationResponse is returned by the JSON evaluation endpoint.
type EvaluationResponse struct {
	Markdown string `json:"markdown"`
	HTML     string `json:"html"`
	Mode     string `json:"mode"`
	Provider string `json:"provider,omitempty"`
}

// Option is a single selectable value with its display label.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ModeResponse describes whether evaluations currently reach the remote workflow.
type ModeResponse struct {
	Remote   bool   `json:"remote"`
	Provider string `json:"provider,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

// OptionsResponse lists the form vocabularies and defaults.
type OptionsResponse struct {
	ProjectFields       []Option          `json:"project_fields"`
	StudentLevels       []Option          `json:"student_levels"`
	SubmissionMaterials []Option          `json:"submission_materials"`
	Defaults            EvaluationRequest `json:"defaults"`
	Mode                ModeResponse      `json:"mode"`
}

// NewOptionsResponse assembles the vocabularies from the domain model.
func NewOptionsResponse(mode ModeResponse) OptionsResponse {
	fields := make([]Option, 0, len(models.ProjectFields))
	for _, field := range models.ProjectFields {
		fields = append(fields, Option{Value: string(field), Label: field.Label()})
	}

	levels := make([]Option, 0, len(models.StudentLevels))
	for _, level := range models.StudentLevels {
		levels = append(levels, Option{Value: string(level), Label: level.Label()})
	}

	materials := make([]Option, 0, len(models.Materials))
	for _, material := range models.Materials {
		materials = append(materials, Option{Value: string(material), Label: material.Label()})
	}

	return OptionsResponse{
		ProjectFields:       fields,
		StudentLevels:       levels,
		SubmissionMaterials: materials,
		Defaults:            NewEvaluationRequest(models.DefaultEvaluationRequest()),
		Mode:                mode,
	}
}
