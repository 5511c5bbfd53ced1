package content

import "time"

// legacySeedTitles identify the English example posts shipped by earlier
// releases. A posts document made only of them is replaced by SeedPosts.
var legacySeedTitles = map[string]struct{}{
	"Welcome to your new blog":              {},
	"Getting started with the editor":       {},
	"Writing your first post":               {},
	"How to organize posts with categories": {},
}

// IsLegacySeed reports whether posts is the untouched legacy example set:
// non-empty, and every title is a legacy seed title.
func IsLegacySeed(posts []Post) bool {
	if len(posts) == 0 {
		return false
	}
	for _, p := range posts {
		if _, ok := legacySeedTitles[p.Title]; !ok {
			return false
		}
	}
	return true
}

// SeedPosts returns the example posts written on first run.
func SeedPosts(now time.Time) []Post {
	today := now.UTC().Format(dateLayout)
	posts := []Post{
		{
			ID:          "seed-bienvenida",
			Slug:        "bienvenida",
			Title:       "Bienvenido a tu blog",
			Summary:     "Un recorrido rápido por el editor y las secciones disponibles.",
			Category:    DefaultCategory,
			Status:      StatusPublished,
			PublishedAt: today,
			Tags:        []string{"inicio", "editor"},
			Featured:    true,
			Sections: []Section{
				{Type: SectionHeading, Text: "Empieza a escribir"},
				{Type: SectionParagraph, Text: "Cada entrada se compone de secciones: títulos, párrafos, listas, código, citas, avisos e imágenes."},
				{Type: SectionList, Items: []string{"Crea una entrada nueva", "Añade secciones", "Publica o programa la fecha"}},
				{Type: SectionCallout, Text: "Los borradores no necesitan contenido; las entradas publicadas sí."},
			},
		},
		{
			ID:          "seed-categorias",
			Slug:        "organiza-por-categorias",
			Title:       "Organiza tus entradas por categorías",
			Summary:     "Las categorías agrupan entradas y se crean automáticamente al usarlas.",
			Category:    "Guías",
			Status:      StatusPublished,
			PublishedAt: today,
			Tags:        []string{"categorías"},
			Sections: []Section{
				{Type: SectionParagraph, Text: "Si borras una categoría, sus entradas pasan a la categoría General."},
				{Type: SectionQuote, Text: "Un buen archivo se encuentra solo."},
			},
		},
		{
			ID:          "seed-codigo",
			Slug:        "bloques-de-codigo",
			Title:       "Bloques de código",
			Summary:     "Cómo mostrar fragmentos de código con su lenguaje.",
			Category:    "Guías",
			Status:      StatusDraft,
			PublishedAt: today,
			Tags:        []string{"código"},
			Sections: []Section{
				{Type: SectionCode, Language: "go", Text: "fmt.Println(\"hola\")"},
			},
		},
	}
	for i := range posts {
		posts[i] = posts[i].Normalize(now)
	}
	return posts
}
