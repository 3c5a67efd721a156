package suppliers

import "strings"

// Category is one entry of the supplier category vocabulary.
type Category struct {
	Key     string
	LabelAR string
	LabelEN string
}

// CategoryGroup clusters categories for the form select.
type CategoryGroup struct {
	NameAR     string
	NameEN     string
	Categories []Category
}

// CategoryGroups is the single category vocabulary shared by the public
// listing and the staff dashboard.
var CategoryGroups = []CategoryGroup{
	{NameAR: "أغذية ومشروبات", NameEN: "Food & Beverage", Categories: []Category{
		{"food_supplies", "مواد غذائية", "Food supplies"},
		{"beverages", "مشروبات", "Beverages"},
		{"meat_poultry", "لحوم ودواجن", "Meat & poultry"},
		{"seafood", "أسماك ومأكولات بحرية", "Seafood"},
		{"bakery", "مخبوزات", "Bakery"},
		{"dairy", "ألبان ومنتجاتها", "Dairy"},
		{"fruits_vegetables", "خضروات وفاكهة", "Fruits & vegetables"},
	}},
	{NameAR: "الإشراف الداخلي", NameEN: "Housekeeping", Categories: []Category{
		{"cleaning_supplies", "مواد تنظيف", "Cleaning supplies"},
		{"laundry_services", "مغاسل وكي الملابس", "Laundry services"},
		{"amenities", "مستلزمات غرف النزلاء", "Guest amenities"},
	}},
	{NameAR: "الصيانة والهندسة", NameEN: "Maintenance & Engineering", Categories: []Category{
		{"electrical", "كهرباء", "Electrical"},
		{"plumbing", "سباكة", "Plumbing"},
		{"hvac", "تكييف وتبريد", "HVAC"},
		{"construction", "مقاولات وإنشاءات", "Construction"},
		{"spare_parts", "قطع غيار وصيانة", "Spare parts"},
	}},
	{NameAR: "الأثاث والمعدات", NameEN: "Furniture & Equipment", Categories: []Category{
		{"furniture", "أثاث فندقي", "Furniture"},
		{"kitchen_equipment", "معدات مطابخ", "Kitchen equipment"},
		{"laundry_equipment", "معدات مغاسل", "Laundry equipment"},
		{"electronics", "أجهزة إلكترونية", "Electronics"},
		{"it_systems", "أنظمة وشبكات IT", "IT systems"},
	}},
	{NameAR: "الأمن والسلامة", NameEN: "Security & Safety", Categories: []Category{
		{"security_services", "خدمات أمن", "Security services"},
		{"fire_safety", "أنظمة إطفاء وحريق", "Fire safety"},
		{"cctv", "كاميرات مراقبة", "CCTV"},
	}},
	{NameAR: "الخدمات", NameEN: "Services", Categories: []Category{
		{"transportation", "نقل ولوجستيات", "Transportation"},
		{"waste_management", "إدارة مخلفات", "Waste management"},
		{"pest_control", "مكافحة آفات", "Pest control"},
		{"medical_supplies", "مستلزمات طبية", "Medical supplies"},
	}},
	{NameAR: "التسويق والتشغيل", NameEN: "Marketing & Operations", Categories: []Category{
		{"printing", "طباعة ودعاية", "Printing"},
		{"uniforms", "زي موحد للموظفين", "Uniforms"},
		{"event_services", "تنظيم مؤتمرات وحفلات", "Event services"},
	}},
	{NameAR: "أخرى", NameEN: "Other", Categories: []Category{
		{"other", "أخرى", "Other"},
	}},
}

// legacy dashboard keys mapped onto the shared vocabulary
var categoryAliases = map[string]string{
	"Electronics":  "electronics",
	"Clothing":     "uniforms",
	"Food":         "food_supplies",
	"Construction": "construction",
	"Medical":      "medical_supplies",
	"Other":        "other",
}

var categoryIndex = func() map[string]Category {
	idx := make(map[string]Category)
	for _, g := range CategoryGroups {
		for _, c := range g.Categories {
			idx[c.Key] = c
		}
	}
	return idx
}()

// NormalizeCategory maps aliases onto vocabulary keys and trims input.
// Unknown values are kept as typed.
func NormalizeCategory(v string) string {
	v = strings.TrimSpace(v)
	if key, ok := categoryAliases[v]; ok {
		return key
	}
	return v
}

// CategoryLabel returns the display label for a stored category. Unknown
// values are shown raw and absent ones as "-".
func CategoryLabel(key, lang string) string {
	key = NormalizeCategory(key)
	if key == "" {
		return "-"
	}
	c, ok := categoryIndex[key]
	if !ok {
		return key
	}
	if lang == "en" {
		return c.LabelEN
	}
	return c.LabelAR
}

// IsKnownCategory reports whether key belongs to the vocabulary.
func IsKnownCategory(key string) bool {
	_, ok := categoryIndex[NormalizeCategory(key)]
	return ok
}
