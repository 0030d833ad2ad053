package ai

// DefaultSystemPrompt is the rewrite instruction sent as a system prompt
const DefaultSystemPrompt = `You are an expert resume writer and ATS (Applicant Tracking System) optimization specialist with a strict commitment to honesty. Your core principles are:

- NEVER invent, exaggerate, or misattribute any skills, employers, titles or achievements
- NEVER add numbers, percentages or metrics that are not already in the resume
- Every statement must be traceable to the original resume
- Use plain text only: no tables, columns, emojis or special symbols

Your expertise includes:
- Rewriting experience bullets as action verb + task + impact
- Placing job description keywords the candidate genuinely has where ATS parsers weigh them most
- Standard section conventions recognized by ATS parsers`

// DefaultUserPrompt is the rewrite request template. Its verbs receive, in
// order: role, seniority, primary keywords, required hard skills, critical
// gaps, weak bullets, summary, experience and skills
const DefaultUserPrompt = `Rewrite the resume sections below for the target job.

**Target role:** %s
**Seniority:** %s
**Primary keywords:** %s
**Required hard skills:** %s
**Keywords missing from the resume:** %s
**Weak experience bullets:**
%s

**Rules:**
1. SUMMARY: 2-3 sentences in the form "[Seniority] [Role] with [X]+ years of experience in [keyword]". Keep years of experience exactly as stated. Use at least 3 keywords the resume already supports.
2. EXPERIENCE: keep every company, title, date line and fact. Rewrite each bullet as a strong action verb + what was done + technology + impact. Keep existing metrics exactly. Bullets start with "- ".
3. SKILLS: a comma-separated list of the skills already listed, with skills matching the job first. Do not add skills.
4. Missing keywords may only be used where the resume already describes that skill in other words.
5. Return an empty string for a section that is empty below.

**Summary:**
-----
%s
-----

**Experience:**
-----
%s
-----

**Skills:**
-----
%s
-----`

// replySchema is the JSON Schema a model reply must satisfy
const replySchema = `{
  "type": "object",
  "properties": {
    "summary": {"type": "string"},
    "experience": {"type": "string"},
    "skills": {"type": "string"}
  },
  "required": ["summary", "experience", "skills"]
}`

// resolvePrompt returns the configured prompt, or the default when none is set.
// File-based prompts are already inlined by the config loader
func resolvePrompt(fromConfig, fromDefault string) string {
	if fromConfig != "" {
		return fromConfig
	}
	return fromDefault
}
