package sections

func stringProp() map[string]any {
	return map[string]any{"type": "string"}
}

func arrayOf(items map[string]any) map[string]any {
	return map[string]any{"type": "array", "items": items}
}

func object(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		list := make([]any, 0, len(required))
		for _, name := range required {
			list = append(list, name)
		}
		schema["required"] = list
	}
	return schema
}

func ctaSchema() map[string]any {
	return object(map[string]any{
		"text": stringProp(),
		"href": stringProp(),
		"style": map[string]any{
			"type": "string",
			"enum": []any{string(CTAPrimary), string(CTASecondary), string(CTALink)},
		},
	}, "text", "href")
}

func imageSchema() map[string]any {
	return object(map[string]any{
		"mediaId": map[string]any{"type": "integer", "minimum": 1},
		"url":     stringProp(),
		"alt":     stringProp(),
	}, "url")
}

// headed returns the heading/subheading/ctas properties shared by most sections,
// merged with extra.
func headed(extra map[string]any) map[string]any {
	props := map[string]any{
		"heading":    stringProp(),
		"subheading": stringProp(),
		"ctas":       arrayOf(ctaSchema()),
	}
	for key, value := range extra {
		props[key] = value
	}
	return props
}

func builtinDefinitions() []Definition {
	return []Definition{
		{
			Type: TypeHero,
			Schema: object(headed(map[string]any{
				"image": imageSchema(),
			})),
			New: func() Content { return &HeroContent{} },
		},
		{
			Type: TypeAchievements,
			Schema: object(headed(map[string]any{
				"cards": arrayOf(object(map[string]any{
					"value":       stringProp(),
					"label":       stringProp(),
					"description": stringProp(),
				}, "value", "label")),
				"groups": arrayOf(object(map[string]any{
					"title": stringProp(),
					"items": arrayOf(stringProp()),
				}, "title", "items")),
			}), "cards", "groups"),
			New: func() Content { return &AchievementsContent{} },
		},
		{
			Type: TypeServices,
			Schema: object(headed(map[string]any{
				"items": arrayOf(object(map[string]any{
					"title":       stringProp(),
					"description": stringProp(),
					"icon":        stringProp(),
					"image":       imageSchema(),
					"href":        stringProp(),
				}, "title")),
			}), "items"),
			New: func() Content { return &ServicesContent{} },
		},
		{
			Type: TypeNews,
			Schema: object(headed(map[string]any{
				"items": arrayOf(object(map[string]any{
					"title":   stringProp(),
					"date":    stringProp(),
					"summary": stringProp(),
					"href":    stringProp(),
					"image":   imageSchema(),
				}, "title")),
			}), "items"),
			New: func() Content { return &NewsContent{} },
		},
		{
			Type: TypeProjects,
			Schema: object(headed(map[string]any{
				"items": arrayOf(object(map[string]any{
					"title":   stringProp(),
					"client":  stringProp(),
					"year":    stringProp(),
					"summary": stringProp(),
					"image":   imageSchema(),
					"href":    stringProp(),
					"tags":    arrayOf(stringProp()),
				}, "title")),
			}), "items"),
			New: func() Content { return &ProjectsContent{} },
		},
		{
			Type: TypeContact,
			Schema: object(map[string]any{
				"heading": stringProp(),
				"addresses": arrayOf(object(map[string]any{
					"label":   stringProp(),
					"address": stringProp(),
					"mapUrl":  stringProp(),
				}, "address")),
				"phones": arrayOf(object(map[string]any{
					"label":  stringProp(),
					"number": stringProp(),
				}, "number")),
				"emails": arrayOf(object(map[string]any{
					"label":   stringProp(),
					"address": stringProp(),
				}, "address")),
				"ctas": arrayOf(ctaSchema()),
			}),
			New: func() Content { return &ContactContent{} },
		},
		{
			Type: TypeRich,
			Schema: object(map[string]any{
				"body":   stringProp(),
				"images": arrayOf(imageSchema()),
				"ctas":   arrayOf(ctaSchema()),
			}),
			New: func() Content { return &RichContent{} },
		},
	}
}
