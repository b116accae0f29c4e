package emoji

import "unicode/utf8"

// Kind identifies the form of an emoji sequence.
type Kind int

const (
	// Single is one emoji code point.
	Single Kind = iota

	// Presentation is a text-default code point followed by U+FE0F.
	Presentation

	// Modified is a modifier base followed by a skin tone.
	Modified

	// Joined is two or more emoji joined by U+200D.
	Joined

	// Flag is a pair of regional indicators.
	Flag

	// Keycap is a digit, '#' or '*' followed by U+20E3.
	Keycap

	// Subdivision is a black flag followed by tag characters.
	Subdivision
)

var kindNames = [...]string{
	Single:       "Single",
	Presentation: "Presentation",
	Modified:     "Modified",
	Joined:       "Joined",
	Flag:         "Flag",
	Keycap:       "Keycap",
	Subdivision:  "Subdivision",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Unknown"
}

// Sequence is one user-perceived emoji, possibly several code points long.
type Sequence struct {
	// Text is the sequence as it appears in the input.
	Text string

	// Kind is the form of the sequence.
	Kind Kind

	// Base is the first code point.
	Base rune

	// Modifier is the skin tone of the base, or 0.
	Modifier rune
}

// Runes returns the code points of the sequence.
func (s Sequence) Runes() []rune {
	return []rune(s.Text)
}

// Parse splits text into emoji sequences.
// It stops at the first rune that does not belong to a sequence and returns
// that rune's byte offset as bad; bad is -1 when all of text was consumed.
func Parse(text string) (seqs []Sequence, bad int) {
	runes := []rune(text)
	pos := 0
	for i := 0; i < len(runes); {
		seq, n := sequenceAt(runes[i:])
		if n == 0 {
			return seqs, pos
		}
		seq.Text = string(runes[i : i+n])
		seqs = append(seqs, seq)
		pos += len(seq.Text)
		i += n
	}
	return seqs, -1
}

// Count returns the number of emoji sequences text parses into, or -1 if
// text contains anything else.
func Count(text string) int {
	seqs, bad := Parse(text)
	if bad >= 0 {
		return -1
	}
	return len(seqs)
}

// sequenceAt recognizes the sequence starting at runes[0] and returns its
// length in runes, 0 if none starts there.
func sequenceAt(runes []rune) (Sequence, int) {
	r := runes[0]
	switch {
	case IsRegionalIndicator(r):
		if len(runes) >= 2 && IsRegionalIndicator(runes[1]) {
			return Sequence{Kind: Flag, Base: r}, 2
		}
		return Sequence{}, 0
	case r == BlackFlag:
		if n := tagRun(runes); n > 0 {
			return Sequence{Kind: Subdivision, Base: r}, n
		}
	case IsKeycapBase(r):
		n := 1
		if n < len(runes) && runes[n] == EmojiVariation {
			n++
		}
		if n < len(runes) && runes[n] == EnclosingKeycap {
			return Sequence{Kind: Keycap, Base: r}, n + 1
		}
		return Sequence{}, 0
	}
	return joined(runes)
}

// tagRun returns the length of a black flag tag sequence, or 0.
func tagRun(runes []rune) int {
	n := 1
	for n < len(runes) && IsTag(runes[n]) {
		n++
	}
	if n > 1 && n < len(runes) && runes[n] == CancelTag {
		return n + 1
	}
	return 0
}

// joined recognizes an element and any ZWJ-joined elements after it.
func joined(runes []rune) (Sequence, int) {
	seq, n := element(runes, true)
	if n == 0 {
		return Sequence{}, 0
	}
	for n+1 < len(runes) && runes[n] == ZWJ {
		_, m := element(runes[n+1:], false)
		if m == 0 {
			break
		}
		n += 1 + m
		seq.Kind = Joined
	}
	return seq, n
}

// element recognizes one emoji with its optional presentation selector and
// skin tone. A leading text-default code point needs U+FE0F; after a ZWJ
// it does not.
func element(runes []rune, lead bool) (Sequence, int) {
	r := runes[0]
	if !IsEmoji(r) {
		return Sequence{}, 0
	}
	seq := Sequence{Kind: Single, Base: r}
	n := 1
	if n < len(runes) {
		switch runes[n] {
		case TextVariation:
			return Sequence{}, 0
		case EmojiVariation:
			seq.Kind = Presentation
			n++
		}
	}
	if n < len(runes) && IsModifier(runes[n]) && IsModifierBase(r) {
		seq.Kind = Modified
		seq.Modifier = runes[n]
		n++
	}
	if lead && seq.Kind == Single && !IsPresentation(r) {
		return Sequence{}, 0
	}
	return seq, n
}

// FirstRune returns the first code point of text, or utf8.RuneError.
func FirstRune(text string) rune {
	r, _ := utf8.DecodeRuneInString(text)
	return r
}
