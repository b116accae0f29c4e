// Package emoji classifies emoji code points, splits text into emoji
// sequences and reads color bitmap glyphs from OpenType fonts.
//
// # Sequences
//
// Parse recognizes the sequence forms of Unicode Technical Standard #51:
//
//   - single emoji, optionally followed by U+FE0F
//   - skin tone modified emoji (base + U+1F3FB..U+1F3FF)
//   - ZWJ sequences (emoji joined by U+200D)
//   - flags (two regional indicators)
//   - keycaps (digit, '#' or '*' + U+FE0F + U+20E3)
//   - subdivision flags (U+1F3F4 + tag characters + U+E007F)
//
// # Color Bitmaps
//
// Color emoji fonts store one PNG per glyph and size. Two layouts exist:
// the CBDT/CBLC tables (Noto Color Emoji) and the sbix table (Apple Color
// Emoji). NewCBDT and NewSbix parse them; both implement Strikes.
//
//	tbl, err := emoji.NewCBDT(cbdt, cblc)
//	bm, err := tbl.Glyph(gid, 160)
//	img, err := bm.Decode()
package emoji
