// Package refdata holds the static catalogs shown during onboarding.
package refdata

import (
	"slices"
	"strings"
)

// Position is a spot on the pitch. X and Y are percentages of pitch width and
// length, with Y growing towards the player's own goal.
type Position struct {
	ID   int    `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// Club is a well-known club a player can pick as favourite.
type Club struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}

// Country is an ISO 3166-1 alpha-2 country.
type Country struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Flag string `json:"flag"`
}

var positions = []Position{
	{ID: 1, Code: "GK", Name: "Goalkeeper", X: 50, Y: 90},
	{ID: 2, Code: "RB", Name: "Right Back", X: 85, Y: 75},
	{ID: 3, Code: "LB", Name: "Left Back", X: 15, Y: 75},
	{ID: 4, Code: "CB", Name: "Center Back", X: 40, Y: 75},
	{ID: 5, Code: "CB", Name: "Center Back", X: 60, Y: 75},
	{ID: 6, Code: "CDM", Name: "Defensive Midfielder", X: 30, Y: 60},
	{ID: 7, Code: "LW", Name: "Left Winger", X: 15, Y: 30},
	{ID: 8, Code: "CM", Name: "Central Midfielder", X: 70, Y: 60},
	{ID: 9, Code: "ST", Name: "Striker", X: 50, Y: 20},
	{ID: 10, Code: "CAM", Name: "Attacking Midfielder", X: 50, Y: 40},
	{ID: 11, Code: "RW", Name: "Right Winger", X: 85, Y: 30},
}

const wiki = "https://upload.wikimedia.org/wikipedia/"

var clubs = []Club{
	{ID: "mancity", Name: "Manchester City", Logo: wiki + "en/thumb/e/eb/Manchester_City_FC_badge.svg/180px-Manchester_City_FC_badge.svg.png"},
	{ID: "barca", Name: "FC Barcelona", Logo: wiki + "en/thumb/4/47/FC_Barcelona_%28crest%29.svg/180px-FC_Barcelona_%28crest%29.svg.png"},
	{ID: "real", Name: "Real Madrid", Logo: wiki + "en/thumb/5/56/Real_Madrid_CF.svg/180px-Real_Madrid_CF.svg.png"},
	{ID: "bayern", Name: "Bayern Munich", Logo: wiki + "commons/thumb/1/1b/FC_Bayern_M%C3%BCnchen_logo_%282017%29.svg/180px-FC_Bayern_M%C3%BCnchen_logo_%282017%29.svg.png"},
	{ID: "liverpool", Name: "Liverpool FC", Logo: wiki + "en/thumb/0/0c/Liverpool_FC.svg/180px-Liverpool_FC.svg.png"},
	{ID: "psg", Name: "Paris Saint-Germain", Logo: wiki + "en/thumb/a/a7/Paris_Saint-Germain_F.C..svg/180px-Paris_Saint-Germain_F.C..svg.png"},
	{ID: "juventus", Name: "Juventus", Logo: wiki + "commons/thumb/b/bc/Juventus_FC_2017_icon_%28black%29.svg/180px-Juventus_FC_2017_icon_%28black%29.svg.png"},
	{ID: "chelsea", Name: "Chelsea FC", Logo: wiki + "en/thumb/c/cc/Chelsea_FC.svg/180px-Chelsea_FC.svg.png"},
}

var countries = []Country{
	{Code: "GB", Name: "United Kingdom", Flag: "🇬🇧"},
	{Code: "ES", Name: "Spain", Flag: "🇪🇸"},
	{Code: "IN", Name: "India", Flag: "🇮🇳"},
	{Code: "DE", Name: "Germany", Flag: "🇩🇪"},
	{Code: "FR", Name: "France", Flag: "🇫🇷"},
	{Code: "IT", Name: "Italy", Flag: "🇮🇹"},
	{Code: "PT", Name: "Portugal", Flag: "🇵🇹"},
	{Code: "NL", Name: "Netherlands", Flag: "🇳🇱"},
	{Code: "BR", Name: "Brazil", Flag: "🇧🇷"},
	{Code: "AR", Name: "Argentina", Flag: "🇦🇷"},
	{Code: "US", Name: "United States", Flag: "🇺🇸"},
	{Code: "NG", Name: "Nigeria", Flag: "🇳🇬"},
}

// Positions returns the pitch positions in display order.
func Positions() []Position { return slices.Clone(positions) }

// Clubs returns the club catalog.
func Clubs() []Club { return slices.Clone(clubs) }

// Countries returns the country catalog.
func Countries() []Country { return slices.Clone(countries) }

// PositionByCode returns the first position with code. Matching ignores case.
func PositionByCode(code string) (Position, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	i := slices.IndexFunc(positions, func(p Position) bool { return p.Code == code })
	if i < 0 {
		return Position{}, false
	}
	return positions[i], true
}

// PositionByID returns the position with id.
func PositionByID(id int) (Position, bool) {
	i := slices.IndexFunc(positions, func(p Position) bool { return p.ID == id })
	if i < 0 {
		return Position{}, false
	}
	return positions[i], true
}

// PositionCodes returns the distinct codes, sorted.
func PositionCodes() []string {
	codes := make([]string, 0, len(positions))
	for _, p := range positions {
		codes = append(codes, p.Code)
	}
	slices.Sort(codes)
	return slices.Compact(codes)
}

// ClubByID returns the club with id.
func ClubByID(id string) (Club, bool) {
	i := slices.IndexFunc(clubs, func(c Club) bool { return c.ID == id })
	if i < 0 {
		return Club{}, false
	}
	return clubs[i], true
}

// CountryByCode returns the country with the alpha-2 code. Matching ignores case.
func CountryByCode(code string) (Country, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	i := slices.IndexFunc(countries, func(c Country) bool { return c.Code == code })
	if i < 0 {
		return Country{}, false
	}
	return countries[i], true
}
