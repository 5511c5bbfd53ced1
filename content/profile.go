package content

import "strings"

// DefaultProfile is served until the author saves their own profile. Its four
// required fields are also the fallbacks for blank values.
func DefaultProfile() Profile {
	return Profile{
		Title:       "Mi blog",
		Name:        "Tu nombre",
		Role:        "Desarrollador de software",
		Description: "Notas sobre código, diseño y producto.",
		Social:      map[string]string{},
		Stack:       []string{},
	}
}

// NormalizeProfile decodes and normalizes a raw profile object.
func NormalizeProfile(v any) Profile {
	if p, ok := v.(Profile); ok {
		return p.Normalize()
	}
	return DecodeProfile(v).Normalize()
}

// Normalize returns the canonical form of p: required fields fall back to
// the defaults, optional fields are trimmed, social keeps only the known
// non-blank links and stack only non-empty entries.
func (p Profile) Normalize() Profile {
	def := DefaultProfile()
	out := Profile{
		Title:        orDefault(p.Title, def.Title),
		Name:         orDefault(p.Name, def.Name),
		Role:         orDefault(p.Role, def.Role),
		Description:  orDefault(p.Description, def.Description),
		Tagline:      strings.TrimSpace(p.Tagline),
		Location:     strings.TrimSpace(p.Location),
		ProfileImage: strings.TrimSpace(p.ProfileImage),
		Email:        strings.TrimSpace(p.Email),
		Now:          strings.TrimSpace(p.Now),
		Social:       make(map[string]string),
		Stack:        trimmedNonEmpty(p.Stack),
	}
	for _, key := range SocialKeys {
		if v := strings.TrimSpace(p.Social[key]); v != "" {
			out.Social[key] = v
		}
	}
	return out
}

// MergeProfile applies a partial update to current. Only keys present in
// patch are touched. A blank value clears an optional field and is ignored
// for a required one. "stack" replaces the whole list; "social" merges per
// link, each link settable or clearable on its own, and null clears them all.
func MergeProfile(current Profile, patch map[string]any) Profile {
	next := current.Normalize()
	required := map[string]*string{
		"title":       &next.Title,
		"name":        &next.Name,
		"role":        &next.Role,
		"description": &next.Description,
	}
	optional := map[string]*string{
		"tagline":      &next.Tagline,
		"location":     &next.Location,
		"profileImage": &next.ProfileImage,
		"email":        &next.Email,
		"now":          &next.Now,
	}
	for key, field := range required {
		if v, ok := patch[key]; ok {
			if s := strings.TrimSpace(str(v)); s != "" {
				*field = s
			}
		}
	}
	for key, field := range optional {
		if v, ok := patch[key]; ok {
			*field = strings.TrimSpace(str(v))
		}
	}
	if v, ok := patch["stack"]; ok {
		next.Stack = splitList(v)
	}
	if v, ok := patch["social"]; ok {
		switch social := v.(type) {
		case map[string]any:
			for k, link := range social {
				if s := strings.TrimSpace(str(link)); s != "" {
					next.Social[k] = s
				} else {
					delete(next.Social, k)
				}
			}
		case nil:
			next.Social = map[string]string{}
		}
	}
	return next.Normalize()
}

func orDefault(v, fallback string) string {
	if s := strings.TrimSpace(v); s != "" {
		return s
	}
	return fallback
}
