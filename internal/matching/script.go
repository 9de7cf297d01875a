package matching

// Unicode block ranges that count as Arabic script.
// Presentation forms show up in text copied from typeset sources.
var arabicRanges = [...]struct{ lo, hi rune }{
	{0x0600, 0x06FF}, // Arabic
	{0x0750, 0x077F}, // Arabic Supplement
	{0x08A0, 0x08FF}, // Arabic Extended-A
	{0xFB50, 0xFDFF}, // Arabic Presentation Forms-A
	{0xFE70, 0xFEFF}, // Arabic Presentation Forms-B
}

// IsArabicScript reports whether text contains at least one Arabic-script
// code point. An empty string is not Arabic.
func IsArabicScript(text string) bool {
	for _, r := range text {
		for _, blk := range arabicRanges {
			if r >= blk.lo && r <= blk.hi {
				return true
			}
		}
	}
	return false
}
