// assets.go
package main

import "strings"

// assetLibrary maps story keywords to illustrative stock images. The visual
// director scans the generated text for the first matching keyword; the
// section's default tag and then the absolute fallback cover everything else.
var assetLibrary = map[string]string{
	// news / editorial
	"editor":   "Academic Portrait.jpg",
	"news":     "Newspaper Editor Look.jpg",
	"politics": "Politician Suit.jpg",

	// police / crime
	"police": "Cartoon Policeman.png",
	"crime":  "Detective Ibis.jpg",
	"siren":  "Blue Suit and Red Tie.jpg",

	// lifestyle / real estate
	"real estate": "The Real Estate Agent.jpg",
	"agent":       "The Sly Cat Agent.jpg",
	"property":    "Modern House.jpg",
	"box":         "Cardboard Box Stacks.jpg",
	"minimalist":  "Giant Saturated Cardboard Box.jpg",

	// suburban gripes
	"suv":     "4WD Outside Cafe.jpg",
	"parking": "Badly Parked 4WD.jpg",
	"car":     "Red 4WD Facing Cafe.png",
	"traffic": "Traffic Jam Props.jpg",
	"bin":     "Bins on a Delineated Curb.jpg",
	"rubbish": "Overflowing Street Bin Cascade.jpg",
	"noise":   "Shouting Clown Profile.png",

	// arts / culture
	"critic":  "Grumpy Maltese with Specs.jpg",
	"art":     "The Artistic Cat Painter.jpg",
	"ibis":    "Architect Ibis.jpg",
	"theatre": "Lecture Hall Pose.jpg",

	// sports
	"zoomie":  "Dynamic Angry Dachshund.jpg",
	"sport":   "Referee and Accessories.jpg",
	"netball": "Netball Post Detail.jpg",
	"whistle": "Referee and Accessories.jpg",

	// mystic
	"mystic": "Gemini Concept.jpg",
	"zodiac": "Gemini Concept.jpg",
}

const fallbackAsset = "Snarling Clown Dachshund.png"

// keyword scan order is not significant in practice, but map iteration is
// random in Go, so matching walks a fixed list to stay deterministic.
var assetKeywords = []string{
	"editor", "news", "politics",
	"police", "crime", "siren",
	"real estate", "agent", "property", "box", "minimalist",
	"suv", "parking", "car", "traffic", "bin", "rubbish", "noise",
	"critic", "art", "ibis", "theatre",
	"zoomie", "sport", "netball", "whistle",
	"mystic", "zodiac",
}

// ResolveImage picks an illustration for a story: first keyword hit in the
// text, else the section's default tag, else the fallback image.
func ResolveImage(text, defaultTag string) string {
	lower := strings.ToLower(text)
	for _, kw := range assetKeywords {
		if strings.Contains(lower, kw) {
			return assetLibrary[kw]
		}
	}
	if filename, ok := assetLibrary[defaultTag]; ok {
		return filename
	}
	return fallbackAsset
}
