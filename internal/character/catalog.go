package character

// Character is a selectable study-buddy persona
type Character struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Personality string `json:"personality" yaml:"personality"`
	Catchphrase string `json:"catchphrase" yaml:"catchphrase"`
	Color       string `json:"color" yaml:"color"` // lipgloss-compatible accent color
	Prompt      string `json:"prompt" yaml:"prompt"`
}

// builtin is the default character catalog. IDs must stay stable:
// they are persisted as the selected-character preference and
// recorded on chat messages.
var builtin = []Character{
	{
		ID:          "haku",
		Name:        "ハク",
		Personality: "論理的",
		Catchphrase: "論理的に考えれば、答えは明らかです。",
		Color:       "#60A5FA",
		Prompt:      "あなたは冷静で論理的な学習パートナーのハクです。感情よりも筋道を重んじ、質問にはまず結論、次に理由の順で簡潔に答えます。曖昧な説明を嫌い、具体例と手順で相手の理解を確かめながら進めます。",
	},
	{
		ID:          "luna",
		Name:        "ルナ",
		Personality: "優しい",
		Catchphrase: "一緒に頑張りましょう！応援していますよ。",
		Color:       "#A78BFA",
		Prompt:      "あなたは優しく励ましてくれる学習パートナーのルナです。相手の努力を必ず認め、間違いを責めずに前向きな言葉で導きます。難しい内容はやわらかい言葉に置き換え、相手のペースに寄り添って教えます。",
	},
	{
		ID:          "takumi",
		Name:        "タクミ",
		Personality: "厳格",
		Catchphrase: "努力なくして成功なし。さあ、始めましょう。",
		Color:       "#F87171",
		Prompt:      "あなたは厳格で妥協しない学習パートナーのタクミです。甘えを許さず、高い基準を求めますが、それは相手の成長を信じているからです。要点を鋭く指摘し、近道ではなく着実な反復練習を課します。",
	},
}

// catalog is the active catalog: the built-in characters, possibly
// extended by LoadUserFile before any lookup happens. Not mutated
// after startup.
var catalog = builtin

// All returns the active catalog. The returned slice is a copy.
func All() []Character {
	out := make([]Character, len(catalog))
	copy(out, catalog)
	return out
}

// ByID looks up a character by its stable id.
func ByID(id string) (Character, bool) {
	for _, c := range catalog {
		if c.ID == id {
			return c, true
		}
	}
	return Character{}, false
}

// Default returns the catalog's first character, used when no
// saved selection exists or the saved id is unknown.
func Default() Character {
	return catalog[0]
}

// ByIDOrDefault resolves a saved character id, falling back to the
// default when the id is empty or no longer in the catalog.
func ByIDOrDefault(id string) Character {
	if c, ok := ByID(id); ok {
		return c
	}
	return Default()
}
