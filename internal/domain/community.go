package domain

import "strings"

// CommunityUnassigned labels records without a usable province.
const CommunityUnassigned = "no asignado"

// communityVariants lists, per autonomous community, the province names and
// spellings seen in the stateProvince column.
var communityVariants = map[string][]string{
	"andalucía": {"sevilla", "cádiz", "huelva", "granada", "jaén", "almería", "córdoba", "málaga"},
	"aragón":    {"zaragoza", "huesca", "teruel"},
	"asturias":  {"principado de asturias"},
	"cantabria": {},
	"castilla y león": {
		"valladolid", "león", "zamora", "burgos", "palencia", "soria", "ávila", "segovia", "salamanca",
	},
	"castilla-la mancha": {"cuenca", "albacete", "toledo", "guadalajara", "ciudad real"},
	"cataluña":           {"barcelona", "girona", "gerona", "lleida", "lérida", "tarragona", "catalonia", "catalunya"},
	"comunidad valenciana": {
		"valencia", "alicante", "castellón", "castelló", "castellón/castelló",
		"valencia/valència", "alicante/alacant", "alicante/alicant", "comunitat valenciana",
	},
	"extremadura": {"badajoz", "cáceres"},
	"galicia":     {"a coruña", "la coruña", "lugo", "ourense", "orense", "pontevedra"},
	"madrid":      {"comunidad de madrid"},
	"murcia":      {"región de murcia"},
	"navarra":     {"comunidad foral de navarra"},
	"país vasco": {
		"bizkaia", "vizcaya", "gipuzkoa", "guipúzcoa", "álava", "araba", "euskadi", "basque country",
	},
	"la rioja":        {},
	"islas baleares":  {"illes balears", "baleares", "balearic islands", "mallorca", "menorca", "ibiza", "eivissa"},
	"canarias": {
		"santa cruz de tenerife", "las palmas", "islas canarias", "canarias, canary islands", "canary islands",
		"tenerife", "gran canaria", "lanzarote", "fuerteventura", "la palma", "la gomera", "el hierro",
	},
	"ceuta":             {},
	"melilla":           {},
	CommunityUnassigned: {"mar", "northern atlantic ocean", "mediterranean sea", "desconocido", "unknown"},
}

// communityIndex maps accent-folded variants and community names to the
// canonical community.
var communityIndex = buildCommunityIndex()

func buildCommunityIndex() map[string]string {
	idx := make(map[string]string)
	for community, variants := range communityVariants {
		idx[foldAccents(community)] = community
		for _, v := range variants {
			idx[foldAccents(v)] = community
		}
	}
	return idx
}

// MapCommunity maps a stateProvince value to its autonomous community.
// Matching ignores case and accents. Empty values map to [CommunityUnassigned];
// unknown values are returned lower-cased and trimmed.
func MapCommunity(stateProvince string) string {
	key := strings.ToLower(strings.Join(strings.Fields(stateProvince), " "))
	if isMissing(key) {
		return CommunityUnassigned
	}
	if c, ok := communityIndex[foldAccents(key)]; ok {
		return c
	}
	return key
}
