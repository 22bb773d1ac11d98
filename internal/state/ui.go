package state

import "github.com/noah-isme/schedule-sync/internal/store"

// MenuTab names a schedule menu entry.
type MenuTab string

const (
	MenuTabGroup    MenuTab = "group"
	MenuTabTeacher  MenuTab = "teacher"
	MenuTabSession  MenuTab = "session"
	MenuTabPersonal MenuTab = "personal"
)

// ParseMenuTab validates a tab name. The empty string clears the active tab.
func ParseMenuTab(raw string) (MenuTab, bool) {
	switch tab := MenuTab(raw); tab {
	case "", MenuTabGroup, MenuTabTeacher, MenuTabSession, MenuTabPersonal:
		return tab, true
	}
	return "", false
}

type MenuState struct {
	ActiveMenuTab MenuTab `json:"activeMenuTab,omitempty"`
}

type ThemeState struct {
	IsDarkTheme bool `json:"isDarkTheme"`
}

type (
	MenuTabChanged struct{ Tab MenuTab }
	ThemeToggled   struct{}
	// AppStarted triggers rehydration from the persisted session.
	AppStarted struct{}
)

func (MenuTabChanged) EventName() string { return "CHANGE_ACTIVE_MENU_TAB" }
func (ThemeToggled) EventName() string   { return "SWITCH_THEME" }
func (AppStarted) EventName() string     { return "APP_STARTED" }

func (s MenuState) reduce(e store.Event) MenuState {
	if ev, ok := e.(MenuTabChanged); ok {
		s.ActiveMenuTab = ev.Tab
	}
	return s
}

func (s ThemeState) reduce(e store.Event) ThemeState {
	if _, ok := e.(ThemeToggled); ok {
		s.IsDarkTheme = !s.IsDarkTheme
	}
	return s
}
