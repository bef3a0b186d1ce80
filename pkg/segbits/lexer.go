package segbits

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// SegbitsLexer defines the tokens of a segbits database line
// Example: INT.BYP_ALT0.BYP_BOUNCE_N3_3 !22_07 !23_07 !25_07 21_07 24_07
var SegbitsLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},

	// Fuzzer provenance (e.g. origin:004-clb-ffconfig)
	{Name: "Origin", Pattern: `origin:[^\s]+`},

	// Bit reference <word>_<bit>, optionally inverted with !
	// Must come before Ident, which would also accept 22_07
	{Name: "Bit", Pattern: `!?[0-9]+_[0-9]+\b`},

	// Feature tag
	{Name: "Ident", Pattern: `[A-Za-z0-9_.\[\]]+`},
})
