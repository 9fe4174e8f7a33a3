package domain

const (
	DescribeInstruction = "What is in the image?"
	DescribeMimeType    = "image/jpeg"

	GenerationProvider   = "openai"
	GenerationResolution = "512x512"
	GenerationNumImages  = 1
)

type DescriptionRequest struct {
	ImageBytes []byte
	MimeType   string
}

func NewDescriptionRequest(image []byte) DescriptionRequest {
	return DescriptionRequest{
		ImageBytes: image,
		MimeType:   DescribeMimeType,
	}
}

type GenerationRequest struct {
	Providers  string `json:"providers"`
	Text       string `json:"text"`
	Resolution string `json:"resolution"`
	NumImages  int    `json:"num_images"`
}

func NewGenerationRequest(prompt string) GenerationRequest {
	return GenerationRequest{
		Providers:  GenerationProvider,
		Text:       prompt,
		Resolution: GenerationResolution,
		NumImages:  GenerationNumImages,
	}
}

type GenerationResult struct {
	ImageURL string
}
