package relay

import "fmt"

// stayInCharacter is appended to every synthesized system prompt.
// The wording is part of the relay contract: the front-end relies on
// replies staying in persona.
const stayInCharacter = "Always respond in character, maintaining a natural conversation flow. Never break character or acknowledge that you are an AI."

// SystemPrompt synthesizes the system directive for a character.
func SystemPrompt(name, prompt string) string {
	return fmt.Sprintf("You are %s. %s\n\n%s", name, prompt, stayInCharacter)
}
