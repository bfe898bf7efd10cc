package recommendation

import (
	"fmt"
	"strings"

	"gift-recommender/internal/pkg/common"
)

const promptTemplate = `You are an Indian-market gift recommendation expert. Based on the following information about a gift recipient,
generate %[1]d personalized gift recommendations. Focus on common, purchasable items available in Indian online stores (Flipkart, Amazon India) or local markets.
The response must be a strict JSON array, with no introductory text or explanations.

Recipient details:
- Age: %[2]s
- Gender: %[3]s
- Relationship: %[4]s
- Occasion: %[5]s
- Interests: %[6]s
- Personality traits: %[7]s
- Budget: ₹%[8]s
- Additional Info: %[9]s

For each gift, provide a JSON object with exactly these fields:
{"name": string, "description": string, "approximatePrice": number, "category": string, "reason": string, "imageSearchQuery": string}

Constraints:
- Only suggest practical, commonly purchasable gifts relevant to Indian culture and occasions.
- approximatePrice must never exceed ₹%[8]s.
- Output only the JSON array of %[1]d gifts, no extra text, no bullet points or numbering.`

// BuildPrompt 依問卷內容產生 prompt
func BuildPrompt(survey common.SurveyInput, count int) string {
	additional := strings.TrimSpace(survey.AdditionalInfo)
	if additional == "" {
		additional = "None"
	}

	return fmt.Sprintf(promptTemplate,
		count,
		survey.Age.String(),
		survey.Gender,
		survey.Relationship,
		survey.Occasion,
		common.StringSliceToString(survey.Interests),
		common.StringSliceToString(survey.Personality),
		survey.Budget.String(),
		additional,
	)
}
