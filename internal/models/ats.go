package models

import "time"

// ATSScore is the AI-computed compatibility assessment between one candidate
// and one job. Cached once per (job, candidate) pair.
type ATSScore struct {
	ID                   string      `json:"id" db:"id"`
	JobID                string      `json:"job_id" db:"job_id"`
	CandidateID          string      `json:"candidate_id" db:"candidate_id"`
	OverallScore         int         `json:"overall_score" db:"overall_score"`
	SkillsMatchScore     int         `json:"skills_match_score" db:"skills_match_score"`
	ExperienceMatchScore int         `json:"experience_match_score" db:"experience_match_score"`
	KeywordMatchScore    int         `json:"keyword_match_score" db:"keyword_match_score"`
	CulturalFitScore     int         `json:"cultural_fit_score" db:"cultural_fit_score"`
	DetailedAnalysis     string      `json:"detailed_analysis,omitempty" db:"detailed_analysis"`
	Recommendations      StringArray `json:"recommendations,omitempty" db:"recommendations"`
	Strengths            StringArray `json:"strengths,omitempty" db:"strengths"`
	Weaknesses           StringArray `json:"weaknesses,omitempty" db:"weaknesses"`
	CreatedAt            time.Time   `json:"created_at" db:"created_at"`
}

// GeneratedResume is the stored outcome of one resume generation call.
type GeneratedResume struct {
	ID                 string         `json:"id" db:"id"`
	CandidateID        string         `json:"candidate_id" db:"candidate_id"`
	JobID              string         `json:"job_id" db:"job_id"`
	ATSScore           int            `json:"ats_score" db:"ats_score"`
	ResumeTitle        string         `json:"resume_title" db:"resume_title"`
	ResumeContent      string         `json:"resume_content" db:"resume_content"`
	ResumeFormat       string         `json:"resume_format" db:"resume_format"`
	GenerationMetadata map[string]any `json:"generation_metadata,omitempty" db:"generation_metadata"`
	CreatedAt          time.Time      `json:"created_at" db:"created_at"`
}
