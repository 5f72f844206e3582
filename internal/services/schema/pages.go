package schema

import (
	"github.com/ternarybob/dernek/internal/models"
)

const phonePattern = `^\+?[0-9 ()\-]{7,20}$`

func shortText(key, label string, required bool, rules ...models.Rule) models.FieldSchema {
	return models.FieldSchema{Key: key, Label: label, Type: models.TypeShortText, Required: required, Rules: rules}
}

func longText(key, label string, required bool, rules ...models.Rule) models.FieldSchema {
	return models.FieldSchema{Key: key, Label: label, Type: models.TypeLongText, Required: required, Rules: rules}
}

func link(key, label string) models.FieldSchema {
	return shortText(key, label, false, models.URLRule(""))
}

func stringList(key, label string, required bool, rules ...models.Rule) models.FieldSchema {
	return models.FieldSchema{
		Key:           key,
		Label:         label,
		Type:          models.TypeStringList,
		Required:      required,
		Rules:         rules,
		ExampleFormat: `["Birinci madde", "İkinci madde"]`,
	}
}

func objectList(key, label string, required bool, subFields []string, example models.Document) models.FieldSchema {
	return models.FieldSchema{
		Key:      key,
		Label:    label,
		Type:     models.TypeObjectList,
		Required: required,
		Structure: &models.StructuralSchema{
			RequiredSubFields: subFields,
			ExampleItem:       example,
		},
		ExampleFormat: "[" + example.String() + "]",
		IDField:       "id",
	}
}

// DefaultPages returns the page table of the association website.
// Defaults are left null here and filled from the default content document.
func DefaultPages() []Page {
	return []Page{
		{
			ID:     "site",
			Title:  "Site Kimliği",
			Prefix: "site",
			Fields: []models.FieldSchema{
				shortText("name", "Dernek adı", true, models.MaxLength(80, "")),
				shortText("tagline", "Slogan", false, models.MaxLength(120, "")),
				longText("description", "Kısa tanıtım", false, models.MaxLength(500, "")),
				link("logoUrl", "Logo bağlantısı"),
				{
					Key:   "foundedYear",
					Label: "Kuruluş yılı",
					Type:  models.TypeNumber,
					Rules: []models.Rule{
						models.CustomExpr("value >= 1900 && value <= 2100", "Kuruluş yılı 1900 ile 2100 arasında olmalıdır"),
					},
				},
			},
		},
		{
			ID:     "contact",
			Title:  "İletişim Bilgileri",
			Prefix: "contact",
			Fields: []models.FieldSchema{
				shortText("email", "E-posta", true, models.EmailRule("")),
				shortText("phone", "Telefon", false, models.Pattern(phonePattern, "Telefon numarası geçersiz")),
				longText("address", "Adres", false, models.MaxLength(300, "")),
				link("mapEmbedUrl", "Harita bağlantısı"),
				stringList("workingHours", "Çalışma saatleri", false, models.MaxLength(7, "En fazla 7 satır girilebilir")),
			},
		},
		{
			ID:     "social",
			Title:  "Sosyal Medya",
			Prefix: "social",
			Fields: []models.FieldSchema{
				link("facebook", "Facebook"),
				link("instagram", "Instagram"),
				link("twitter", "X (Twitter)"),
				link("linkedin", "LinkedIn"),
				link("youtube", "YouTube"),
			},
		},
		{
			ID:     "seo",
			Title:  "Arama Motoru Ayarları",
			Prefix: "seo",
			Fields: []models.FieldSchema{
				shortText("metaTitle", "Sayfa başlığı", true, models.MaxLength(60, "")),
				longText("metaDescription", "Açıklama", false, models.MaxLength(160, "")),
				stringList("keywords", "Anahtar kelimeler", false, models.MaxLength(20, "En fazla 20 anahtar kelime girilebilir")),
				link("ogImage", "Paylaşım görseli"),
			},
		},
		{
			ID:     "home",
			Title:  "Ana Sayfa",
			Prefix: "content.home",
			Fields: []models.FieldSchema{
				shortText("heroTitle", "Başlık", true, models.MinLength(3, ""), models.MaxLength(120, "")),
				longText("heroSubtitle", "Alt başlık", false, models.MaxLength(300, "")),
				shortText("heroButtonText", "Buton metni", false, models.MaxLength(40, "")),
				objectList("stats", "İstatistikler", false, []string{"value", "label"},
					models.Object("value", "250+", "label", "Bursiyer")),
				objectList("features", "Öne çıkanlar", true, []string{"title", "description"},
					models.Object("title", "Burs Programı", "description", "Başarılı öğrencilere destek")),
				{Key: "announcementsEnabled", Label: "Duyurular gösterilsin", Type: models.TypeBoolean},
			},
		},
		{
			ID:     "about",
			Title:  "Hakkımızda",
			Prefix: "content.about",
			Fields: []models.FieldSchema{
				shortText("heroTitle", "Başlık", true, models.MaxLength(120, "")),
				longText("story", "Hikayemiz", false, models.MaxLength(4000, "")),
				{
					Key:           "missionVision",
					Label:         "Misyon ve vizyon",
					Type:          models.TypeOpaqueObject,
					ExampleFormat: `{"mission": "...", "vision": "..."}`,
					Rules: []models.Rule{
						models.CustomExpr(`"mission" in value && "vision" in value`, "Misyon ve vizyon birlikte girilmelidir"),
					},
				},
				objectList("values", "Değerlerimiz", false, []string{"title", "description"},
					models.Object("title", "Şeffaflık", "description", "Tüm faaliyetlerimizi paylaşırız")),
				objectList("boardMembers", "Yönetim kurulu", false, []string{"name", "role"},
					models.Object("name", "Ad Soyad", "role", "Başkan")),
			},
		},
		{
			ID:     "scholarship",
			Title:  "Burs",
			Prefix: "content.scholarship",
			Fields: []models.FieldSchema{
				shortText("heroTitle", "Başlık", true, models.MaxLength(120, "")),
				longText("intro", "Giriş metni", false, models.MaxLength(2000, "")),
				stringList("criteria", "Başvuru koşulları", true, models.RequiredRule("En az bir başvuru koşulu girilmelidir")),
				objectList("steps", "Başvuru adımları", false, []string{"title", "description"},
					models.Object("title", "Formu doldurun", "description", "Çevrimiçi başvuru formunu eksiksiz doldurun")),
				objectList("faq", "Sıkça sorulan sorular", false, []string{"question", "answer"},
					models.Object("question", "Burs ne zaman ödenir?", "answer", "Her ayın ilk haftası")),
				{Key: "applicationOpen", Label: "Başvurular açık", Type: models.TypeBoolean},
			},
		},
		{
			ID:     "membership",
			Title:  "Üyelik",
			Prefix: "content.membership",
			Fields: []models.FieldSchema{
				shortText("heroTitle", "Başlık", true, models.MaxLength(120, "")),
				longText("intro", "Giriş metni", false, models.MaxLength(2000, "")),
				stringList("benefits", "Üyelik avantajları", false),
				{
					Key:   "duesAmount",
					Label: "Yıllık aidat",
					Type:  models.TypeNumber,
					Rules: []models.Rule{models.CustomExpr("value >= 0", "Aidat negatif olamaz")},
				},
				objectList("faq", "Sıkça sorulan sorular", false, []string{"question", "answer"},
					models.Object("question", "Kimler üye olabilir?", "answer", "18 yaşını doldurmuş herkes")),
			},
		},
		{
			ID:     "contactPage",
			Title:  "İletişim Sayfası",
			Prefix: "content.contact",
			Fields: []models.FieldSchema{
				shortText("heroTitle", "Başlık", true, models.MaxLength(120, "")),
				longText("intro", "Giriş metni", false, models.MaxLength(1000, "")),
				{Key: "formEnabled", Label: "İletişim formu açık", Type: models.TypeBoolean},
			},
		},
	}
}
