package resume

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an expert resume writer specializing in ` +
	`ATS-optimized resumes. You produce clean, well-structured resumes that ` +
	`highlight the candidate's most relevant qualifications for a specific ` +
	`job description. Never invent experience or credentials the candidate ` +
	`does not have.`

// buildPrompt assembles the user message from the candidate profile and the
// target job description.
func buildPrompt(profile CandidateProfile, jobDescription, format string) string {
	var sb strings.Builder

	sb.WriteString("Create a tailored resume for the following candidate and job.\n\n")
	sb.WriteString("CANDIDATE PROFILE:\n")
	fmt.Fprintf(&sb, "Name: %s %s\n", profile.FirstName, profile.LastName)
	if profile.Email != "" {
		fmt.Fprintf(&sb, "Email: %s\n", profile.Email)
	}
	if profile.Phone != "" {
		fmt.Fprintf(&sb, "Phone: %s\n", profile.Phone)
	}
	if profile.Location != "" {
		fmt.Fprintf(&sb, "Location: %s\n", profile.Location)
	}
	if profile.Summary != "" {
		fmt.Fprintf(&sb, "Summary: %s\n", profile.Summary)
	}
	if len(profile.Skills) > 0 {
		fmt.Fprintf(&sb, "Skills: %s\n", strings.Join(profile.Skills, ", "))
	}
	if profile.Experience != "" {
		fmt.Fprintf(&sb, "Experience:\n%s\n", profile.Experience)
	}
	if profile.Education != "" {
		fmt.Fprintf(&sb, "Education:\n%s\n", profile.Education)
	}
	if len(profile.Certifications) > 0 {
		fmt.Fprintf(&sb, "Certifications: %s\n", strings.Join(profile.Certifications, ", "))
	}

	sb.WriteString("\nJOB DESCRIPTION:\n")
	sb.WriteString(jobDescription)

	sb.WriteString("\n\nREQUIREMENTS:\n")
	sb.WriteString("- Emphasize the candidate's experience and skills most relevant to this job.\n")
	sb.WriteString("- Use keywords from the job description naturally throughout.\n")
	sb.WriteString("- Keep the resume to one or two pages of content.\n")
	fmt.Fprintf(&sb, "- Output the resume in %s format with no commentary before or after.\n", format)

	return sb.String()
}

// BuildTitle names a generated resume: "First Last - Job at Company", with
// graceful fallbacks when pieces are missing.
func BuildTitle(profile CandidateProfile, jobTitle, companyName string) string {
	name := strings.TrimSpace(profile.FirstName + " " + profile.LastName)
	if name == "" {
		name = "Resume"
	}

	switch {
	case jobTitle != "" && companyName != "":
		return fmt.Sprintf("%s - %s at %s", name, jobTitle, companyName)
	case jobTitle != "":
		return fmt.Sprintf("%s - %s", name, jobTitle)
	default:
		return name
	}
}
