package course

import (
	"fmt"
	"strings"
)

// systemPrompt pins the model to machine-readable output. Small local
// models drift into prose without it.
const systemPrompt = "You are an expert course creator. Return ONLY valid JSON. No preamble. No markdown. No conversational text. Do not explain your response."

const outlineTemplate = `
Create a structured course outline for:
**Goal**: %s

Structure the course week-by-week (4-24 weeks depending on complexity).

Return specific JSON:
{
  "title": "Course Name",
  "description": "Short overview",
  "prerequisites": ["String 1", "String 2"],
  "weeks": [
    {
      "week": 1,
      "title": "Week Title",
      "concepts": ["Topic 1", "Topic 2"],
      "focus": "theory"
    }
  ]
}

RULES:
1. "prerequisites" MUST be a list of strings, NOT objects.
2. "concepts" MUST be a list of strings.
3. Output VALID JSON ONLY.
`

const weekDetailsTemplate = `
Generate a daily breakdown for Week %d: "%s" of a course on "%s".
Concepts to cover: %s

Return JSON:
{
  "days": [
    {
      "day": 1,
      "title": "Day Topic",
      "task_type": "theory",
      "duration_minutes": 60,
      "concepts": ["Concept A", "Concept B"]
    },
    {
      "day": 2,
      "title": "Day Topic",
      "task_type": "practice",
      "duration_minutes": 90,
      "concepts": ["Concept C"]
    }
  ]
}

RULES:
1. Generate 5-7 days for this week.
2. Each day has 2-4 concepts.
3. Mix theory, practice, and review.
4. JSON ONLY.
`

const dayDetailsTemplate = `
Generate learning content for Day %d: "%s".

**Course Goal**: %s
**Type**: %s (%d min)

Return JSON:
{
  "title": "%s",
  "description": "Educational explanation of the topic. Be clear and direct.",
  "table_of_contents": ["Topic 1", "Topic 2", "Topic 3"],
  "resources": [
    { "title": "Search Query", "source": "youtube" },
    { "title": "Search Query", "source": "web" }
  ]
}

RULES:
1. Description should be helpful but efficient.
2. Provide 3-5 best search queries for resources (focus on YouTube tutorials).
3. JSON ONLY.
`

func outlinePrompt(goal string) string {
	return fmt.Sprintf(outlineTemplate, goal)
}

func weekDetailsPrompt(goal string, weekNumber int, weekTitle string, concepts []string) string {
	conceptsStr := weekTitle
	if len(concepts) > 0 {
		conceptsStr = strings.Join(concepts, ", ")
	}
	return fmt.Sprintf(weekDetailsTemplate, weekNumber, weekTitle, goal, conceptsStr)
}

func dayDetailsPrompt(goal, dayTitle string, dayNumber, durationMinutes int, taskType string) string {
	return fmt.Sprintf(dayDetailsTemplate, dayNumber, dayTitle, goal, taskType, durationMinutes, dayTitle)
}
