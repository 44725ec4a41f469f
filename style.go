package loggerkit

// Style renders the level portion of a formatted log line.
// The zero value is StylePlain.
type Style struct {
	kind   styleKind
	custom func(Level) string
}

type styleKind uint8

const (
	stylePlain styleKind = iota
	styleEmoji
	styleANSI
	styleCustom
)

var (
	// StylePlain renders bare level names: DEBUG, INFO, ...
	StylePlain = Style{kind: stylePlain}
	// StyleEmoji prefixes the level name with a marker glyph.
	StyleEmoji = Style{kind: styleEmoji}
	// StyleANSI wraps the level name in terminal color codes.
	// Not suitable for files that are later fed to the export parser
	// without stripping escapes first.
	StyleANSI = Style{kind: styleANSI}
)

// StyleCustom builds a style from a caller-supplied level renderer.
// A nil fn behaves like StylePlain.
func StyleCustom(fn func(Level) string) Style {
	if fn == nil {
		return StylePlain
	}
	return Style{kind: styleCustom, custom: fn}
}

const ansiReset = "\x1b[0m"

var ansiColors = map[Level]string{
	LevelDebug:    "\x1b[36m", // cyan
	LevelInfo:     "\x1b[32m", // green
	LevelWarning:  "\x1b[33m", // yellow
	LevelError:    "\x1b[31m", // red
	LevelCritical: "\x1b[35m", // magenta
}

var emojiMarks = map[Level]string{
	LevelDebug:    "🔍",
	LevelInfo:     "ℹ️",
	LevelWarning:  "⚠️",
	LevelError:    "❌",
	LevelCritical: "🔥",
}

// Label renders the styled level text. Pure function, no error cases.
func (s Style) Label(l Level) string {
	switch s.kind {
	case styleEmoji:
		return emojiMarks[l] + " " + l.String()
	case styleANSI:
		return ansiColors[l] + l.String() + ansiReset
	case styleCustom:
		return s.custom(l)
	}
	return l.String()
}
