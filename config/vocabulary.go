package config

// Vocabulary bundles the keyword sets used by the classifier, the
// relevance filter, and the scorer. It is built once at startup and passed
// in; nothing mutates it afterwards.
type Vocabulary struct {
	// ElectronicsTerms and FashionTerms are matched as whole tokens;
	// ElectronicsPhrases and FashionPhrases as substrings of the query.
	ElectronicsTerms   []string
	ElectronicsPhrases []string
	FashionTerms       []string
	FashionPhrases     []string

	// AccessoryKeywords flag add-on listings (cases, cables, straps...)
	// by case-insensitive substring match on titles.
	AccessoryKeywords []string

	// Stopwords are dropped from both query and title before token
	// overlap checks.
	Stopwords []string

	// TrustedBrands and VerifiedSellerWords feed the scorer's trust bonus.
	TrustedBrands       []string
	VerifiedSellerWords []string
}

// DefaultVocabulary returns the curated keyword sets.
func DefaultVocabulary() *Vocabulary {
	return &Vocabulary{
		ElectronicsTerms: []string{
			"phone", "smartphone", "iphone", "laptop", "macbook", "computer",
			"tablet", "ipad", "tv", "television", "monitor", "camera",
			"earbud", "earbuds", "earphone", "earphones", "headphone",
			"headphones", "airpods", "speaker", "soundbar", "console",
			"playstation", "xbox", "router", "printer", "smartwatch",
			"projector", "drone", "refrigerator", "microwave",
			"dishwasher", "ac",
		},
		ElectronicsPhrases: []string{
			"smart watch", "gaming console", "washing machine",
			"air conditioner", "power bank", "hard drive", "graphics card",
		},
		FashionTerms: []string{
			"shirt", "tshirt", "t-shirt", "pant", "pants", "trouser",
			"trousers", "jeans", "dress", "skirt", "saree", "kurta",
			"kurti", "lehenga", "jacket", "coat", "blazer", "sweater",
			"hoodie", "shoe", "shoes", "sneakers", "sandals", "heels",
			"boots", "slippers", "sunglasses", "handbag", "jewellery",
		},
		FashionPhrases: []string{
			"running shoes", "sports shoes", "track pants", "crop top",
			"formal wear", "ethnic wear",
		},
		AccessoryKeywords: []string{
			"case", "cover", "covers", "stand", "holder", "mount",
			"adapter", "cable", "charger", "screen protector",
			"screen guard", "tempered glass", "bag", "pouch", "stylus",
			"accessory", "combo", "kit", "set of", "pack of", "bundle",
			"replacement", "spare", "belt", "strap", "band", "clip",
			"sleeve", "skin", "decal", "sticker", "cleaner", "wipe",
			"protector", "guard", "film",
		},
		Stopwords: []string{
			"buy", "online", "best", "price", "prices", "in", "india",
			"for", "the", "a", "an", "with", "new", "latest", "offer",
		},
		TrustedBrands: []string{
			"apple", "samsung", "sony", "lg", "dell", "hp", "lenovo",
			"asus", "acer", "nike", "adidas", "puma", "boat", "jbl",
		},
		VerifiedSellerWords: []string{
			"assured", "verified", "official", "authorized", "retailnet",
		},
	}
}
