package query

import "strings"

// Direction selects which side of a keyword pair is looked up.
type Direction int

const (
	KoToEn Direction = iota
	EnToKo
)

// Pair is one Korean/English keyword couple.
type Pair struct {
	Ko string
	En string
}

// Mapping is a read-only, ordered table of keyword pairs. The orientation
// decides which side Expand treats as the forward source.
type Mapping struct {
	pairs []Pair
	dir   Direction
}

var defaultPairs = []Pair{
	{Ko: "케이스", En: "case"},
	{Ko: "파일", En: "file"},
	{Ko: "데이터", En: "data"},
	{Ko: "리스트", En: "list"},
	{Ko: "테스트", En: "test"},
	{Ko: "디자인", En: "design"},
	{Ko: "코드", En: "code"},
	{Ko: "개발", En: "dev"},
	{Ko: "프로젝트", En: "project"},
	{Ko: "문서", En: "docs"},
	{Ko: "튜토리얼", En: "tutorial"},
	{Ko: "가이드", En: "guide"},
	{Ko: "블로그", En: "blog"},
	{Ko: "뉴스", En: "news"},
	{Ko: "검색", En: "search"},
}

// DefaultMapping returns the built-in table oriented Korean to English.
func DefaultMapping() Mapping {
	return Mapping{pairs: defaultPairs, dir: KoToEn}
}

// NewMapping builds a table from custom pairs. The slice is copied.
func NewMapping(dir Direction, pairs ...Pair) Mapping {
	cp := make([]Pair, len(pairs))
	copy(cp, pairs)
	return Mapping{pairs: cp, dir: dir}
}

// ForLanguage orients the built-in table so the user's language is the
// source side: "ko" maps Korean to English, anything else English to Korean.
func ForLanguage(lang string) Mapping {
	if lang == "ko" {
		return Mapping{pairs: defaultPairs, dir: KoToEn}
	}
	return Mapping{pairs: defaultPairs, dir: EnToKo}
}

func (m Mapping) Direction() Direction { return m.dir }

func (m Mapping) Len() int { return len(m.pairs) }

// Pairs returns the pairs in table order as (source, target) according to the
// mapping's orientation.
func (m Mapping) Pairs() [][2]string {
	out := make([][2]string, 0, len(m.pairs))
	for _, p := range m.pairs {
		if m.dir == KoToEn {
			out = append(out, [2]string{p.Ko, p.En})
		} else {
			out = append(out, [2]string{p.En, p.Ko})
		}
	}
	return out
}

// Lookup returns the counterpart of token in the given direction. Matching on
// the English side ignores case.
func (m Mapping) Lookup(dir Direction, token string) (string, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	for _, p := range m.pairs {
		switch dir {
		case KoToEn:
			if p.Ko == token {
				return p.En, true
			}
		case EnToKo:
			if strings.EqualFold(p.En, token) {
				return p.Ko, true
			}
		}
	}
	return "", false
}
