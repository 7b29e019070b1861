package recommend

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vmunix/marquee/internal/likes"
)

const promptTemplate = `As a movie recommendation AI expert, analyze these movies the user loved:

%s

Based on their preferences, recommend 6 similar movies they would enjoy. For each recommendation, provide:
1. Movie title and year
2. Brief reason why they'd like it (max 50 words)
3. Confidence score 1-10

Format your response as JSON:
{
  "explanation": "Brief analysis of their taste and recommendation strategy",
  "recommendations": [
    {
      "title": "Movie Title",
      "year": "2023",
      "reason": "Why they'd love this movie",
      "confidence": 9
    }
  ]
}

Focus on:
- Genre patterns and themes they enjoy
- Similar directors, actors, or storytelling styles
- Movies with comparable ratings and critical acclaim
- Mix of popular and hidden gems
- Avoid movies they already liked`

// Prompt renders the model prompt for a set of liked movies.
func Prompt(liked []likes.Movie) string {
	lines := make([]string, len(liked))
	for i, m := range liked {
		year, _, _ := strings.Cut(m.ReleaseDate, "-")
		overview := m.Overview
		if r := []rune(overview); len(r) > 100 {
			overview = string(r[:100])
		}
		lines[i] = fmt.Sprintf("- \"%s\" (%s) - %s... (Rating: %s/10)",
			m.Title, year, overview, strconv.FormatFloat(m.VoteAverage, 'f', -1, 64))
	}
	return fmt.Sprintf(promptTemplate, strings.Join(lines, "\n"))
}
