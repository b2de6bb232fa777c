package gemini

import "fmt"

const promptInstruction = `You are an expert resume reviewer and ATS (Applicant Tracking System) specialist.
Analyze the resume below and produce a JSON critique with these fields:
- atsScore: a number from 0 to 100 estimating ATS compatibility
- summary: a short overall assessment
- atsFeedback: specific ATS formatting and keyword observations
- strengths: what the resume does well
- weaknesses: what should be improved
- jobDescriptionMatch: how well the resume matches the job description below; general advice when no job description is given

Respond with JSON only. Output must match the response schema exactly.`

// BuildPrompt combines resume text and job description into the instruction
// string sent to the model. Both inputs are embedded verbatim; an empty job
// description keeps its section so the model degrades to a generic analysis.
// Deterministic: identical inputs yield byte-identical output.
func BuildPrompt(resumeText, jobDescription string) string {
	return fmt.Sprintf("%s\n\nResume:\n%s\n\nJob Description:\n%s", promptInstruction, resumeText, jobDescription)
}
