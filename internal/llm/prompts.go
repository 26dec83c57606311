package llm

import _ "embed"

var (
	//go:embed prompts/kyc_extraction.txt
	kycExtractionPrompt string
	//go:embed prompts/classification.txt
	classificationPrompt string
)

// KYCExtractionPrompt returns the system prompt for structured KYC field
// extraction.
func KYCExtractionPrompt() string {
	return kycExtractionPrompt
}

// ClassificationPrompt returns the system prompt for vision-based document
// classification.
func ClassificationPrompt() string {
	return classificationPrompt
}
