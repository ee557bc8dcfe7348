package product

func ToSuggestion(p Product) Suggestion {
	return Suggestion{ID: p.ID, Title: p.Title}
}

func ToSuggestions(products []Product) []Suggestion {
	out := make([]Suggestion, 0, len(products))
	for _, p := range products {
		out = append(out, ToSuggestion(p))
	}
	return out
}
