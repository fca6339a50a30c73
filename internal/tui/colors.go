package tui

// Color constants for the studybuddy TUI theme
const (
	// Base Colors
	ColorAppBackground  = ""        // Use terminal default background
	ColorCardBackground = "#14202B" // Deep navy
	ColorBorder         = "#334155" // Slate

	// Text Colors
	ColorPrimaryText   = "#E8EDF5" // Primary text (messages, titles, values)
	ColorSecondaryText = "#AAB6C8" // Secondary text - muted blue-grey
	ColorDisabledText  = "#67718A" // Disabled/muted text
	ColorHelpText      = "240"     // Dark grey for help text

	// Accent Colors (Teal theme)
	ColorAccentMain   = "#0D9488" // Accent elements, active borders
	ColorAccentBright = "#2DD4BF" // Highlights, progress, running timer

	// State Colors
	ColorError   = "#EF4444" // Errors, relay failures
	ColorSuccess = "#22C55E" // Success, session saved
	ColorWarning = "#F59E0B" // Warnings
)
