package base

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/raushankrgupta/tryon-studio/models"
)

var accessoryKeywords = []string{
	"hat", "cap", "beanie", "bag", "handbag", "backpack", "tote", "wallet",
	"sunglasses", "glasses", "watch", "necklace", "earring", "bracelet",
	"ring", "scarf", "belt", "jewellery", "jewelry", "tie",
}

// NewItem builds a wardrobe item for a scraped product. The id is derived from
// the page URL so importing the same page twice yields the same item.
func NewItem(pageURL, name, imageURL string) *models.WardrobeItem {
	name = strings.Join(strings.Fields(name), " ")
	return &models.WardrobeItem{
		ID:       "import-" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(pageURL)).String(),
		Name:     name,
		URL:      imageURL,
		Category: GuessCategory(name),
	}
}

// GuessCategory classifies a product by the words in its name.
func GuessCategory(name string) models.Category {
	words := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !(r >= 'a' && r <= 'z')
	})
	for _, w := range words {
		for _, k := range accessoryKeywords {
			if w == k || w == k+"s" || w == k+"es" {
				return models.CategoryAccessory
			}
		}
	}
	return models.CategoryClothing
}

// AbsoluteURL resolves ref against the page it was found on.
func AbsoluteURL(pageURL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "//") {
		return "https:" + ref
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return ref
	}
	u, err := base.Parse(ref)
	if err != nil {
		return ref
	}
	return u.String()
}
