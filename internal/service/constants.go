package service

const (
	DallE3 = "dall-e-3"
	DallE2 = "dall-e-2"

	QualityStandard = "standard"
	QualityHD       = "hd"

	StyleVivid   = "vivid"
	StyleNatural = "natural"
)

const (
	defaultModel    = DallE3
	maxImagesDallE2 = 5

	imageFileTimeLayout = "20060102_150405"
	imageFileTemplate   = "generated_image_%s_%d.png"
)

var modelOptions = map[string]modelSpec{
	DallE3: {
		sizes:     []string{"1024x1024", "1024x1792", "1792x1024"},
		qualities: []string{QualityStandard, QualityHD},
		styles:    []string{StyleVivid, StyleNatural},
		minN:      1,
		maxN:      1,
	},
	DallE2: {
		sizes: []string{"256x256", "512x512", "1024x1024"},
		minN:  1,
		maxN:  maxImagesDallE2,
	},
}

// ImageModels lists models in the order the form shows them.
var ImageModels = []string{DallE3, DallE2}
