// Package i18n holds the Korean and English interface text.
package i18n

import (
	"math/rand"
	"strings"
)

const (
	Korean  = "ko"
	English = "en"
)

type EmptyState struct {
	Icon string
	Text string
}

// Messages is every piece of text the popup and CLI print.
type Messages struct {
	Title             string
	Subtitle          string
	SearchPlaceholder string
	SearchButton      string
	EmptyStates       []EmptyState
	Loading           string
	NoResults         string
	EvidenceUnknown   string
	RecentSearches    string
	Suggestions       string
	Partial           string
	Copied            string
	Opened            string
	HistoryCleared    string
	HistoryEmpty      string
	Settings          string
	Language          string
	Theme             string
	DarkMode          string
	LightMode         string
	KoreanName        string
	EnglishName       string
}

var catalog = map[string]Messages{
	Korean: {
		Title:             "북마크 흥신소",
		Subtitle:          "DETECTIVE AGENCY",
		SearchPlaceholder: "단서를 입력하세요...",
		SearchButton:      "수사 시작",
		EmptyStates: []EmptyState{
			{Icon: "📁", Text: "잃어버린 북마크 사건 접수 중...\n단서를 제공해주세요!"},
			{Icon: "🔍", Text: "미해결 북마크 사건이 쌓여있습니다...\n키워드로 단서를 찾아보세요!"},
			{Icon: "📋", Text: "북마크 실종 신고를 기다리고 있습니다...\n어떤 흔적을 찾고 계신가요?"},
			{Icon: "🕵️", Text: "탐정이 대기 중입니다...\n수사할 키워드를 알려주세요!"},
			{Icon: "💼", Text: "새로운 의뢰를 기다리는 중...\n어떤 북마크를 찾아드릴까요?"},
			{Icon: "🗂️", Text: "사건 파일이 정리되어 있습니다...\n검색어로 사건을 열어보세요!"},
		},
		Loading:         "사건 파일을 뒤지는 중...\n잠시만 기다려주세요",
		NoResults:       "\"$QUERY\" 단서로는 증거를 찾을 수 없습니다\n다른 단서를 시도해보세요",
		EvidenceUnknown: "증거 미상",
		RecentSearches:  "🕐 최근 수사 기록",
		Suggestions:     "💡 추천 단서",
		Partial:         "일부 수사가 시간 내에 끝나지 않았습니다",
		Copied:          "주소를 복사했습니다",
		Opened:          "증거를 열었습니다",
		HistoryCleared:  "수사 기록을 지웠습니다",
		HistoryEmpty:    "수사 기록이 없습니다",
		Settings:        "설정",
		Language:        "언어",
		Theme:           "테마",
		DarkMode:        "다크 모드",
		LightMode:       "라이트 모드",
		KoreanName:      "한국어",
		EnglishName:     "English",
	},
	English: {
		Title:             "Bookmark Sleuth",
		Subtitle:          "DETECTIVE AGENCY",
		SearchPlaceholder: "Bookmark clues...",
		SearchButton:      "Find",
		EmptyStates: []EmptyState{
			{Icon: "🔍", Text: "Case files ready for investigation...\nWhat evidence shall we examine?"},
			{Icon: "📂", Text: "The archives await your inquiry...\nEvery bookmark tells a story."},
			{Icon: "🕵️", Text: "Detective on duty...\nDescribe what you're looking for."},
			{Icon: "🗃️", Text: "Cold cases waiting to be solved...\nYour search could crack the mystery."},
			{Icon: "🔦", Text: "Shining light on digital mysteries...\nLet's uncover your lost bookmark."},
			{Icon: "📋", Text: "Investigation board is clear...\nReady to connect the dots?"},
			{Icon: "🎯", Text: "Target acquired... almost there...\nGive me something to track."},
			{Icon: "🧩", Text: "Missing pieces of the puzzle...\nHelp me solve this bookmark mystery."},
		},
		Loading:         "Analyzing digital footprints...\nFollowing the trail",
		NoResults:       "Case closed: No matches for \"$QUERY\"\nPerhaps try a different angle?",
		EvidenceUnknown: "Unknown Evidence",
		RecentSearches:  "🕐 Recent Cases",
		Suggestions:     "💡 Leads",
		Partial:         "Some leads went cold before reporting back",
		Copied:          "Address copied",
		Opened:          "Evidence opened",
		HistoryCleared:  "Case history cleared",
		HistoryEmpty:    "No recent cases",
		Settings:        "Settings",
		Language:        "Language",
		Theme:           "Theme",
		DarkMode:        "Dark Mode",
		LightMode:       "Light Mode",
		KoreanName:      "한국어",
		EnglishName:     "English",
	},
}

// For returns the messages for lang, falling back to English.
func For(lang string) Messages {
	if m, ok := catalog[lang]; ok {
		return m
	}
	return catalog[English]
}

// Languages lists the supported language codes.
func Languages() []string {
	return []string{Korean, English}
}

// Replace substitutes $NAME placeholders.
func Replace(text string, replacements map[string]string) string {
	for name, value := range replacements {
		text = strings.ReplaceAll(text, "$"+name, value)
	}
	return text
}

// NoResultsFor renders the no-results message for q.
func (m Messages) NoResultsFor(q string) string {
	return Replace(m.NoResults, map[string]string{"QUERY": q})
}

// RandomEmptyState picks one of the idle messages. A nil rng uses the
// package level source.
func (m Messages) RandomEmptyState(rng *rand.Rand) EmptyState {
	if len(m.EmptyStates) == 0 {
		return EmptyState{}
	}
	var i int
	if rng != nil {
		i = rng.Intn(len(m.EmptyStates))
	} else {
		i = rand.Intn(len(m.EmptyStates))
	}
	return m.EmptyStates[i]
}

// TitleOr returns title, or the unknown evidence label when it is blank.
func (m Messages) TitleOr(title string) string {
	if strings.TrimSpace(title) == "" {
		return m.EvidenceUnknown
	}
	return title
}

// LanguageName returns the display name of a language code.
func (m Messages) LanguageName(lang string) string {
	if lang == Korean {
		return m.KoreanName
	}
	return m.EnglishName
}

// ThemeName returns the display name of a theme.
func (m Messages) ThemeName(theme string) string {
	if theme == "light" {
		return m.LightMode
	}
	return m.DarkMode
}
