// Package data embeds the seed Korean lexicon.
//
// The lexicon directory holds one word list per POS tag plus the noun
// frequency table, name dictionaries, typo table and blockword list.
// See dict.Load for the file formats.
package data

import "embed"

// LexiconDir is the root of the embedded lexicon inside Lexicon.
const LexiconDir = "lexicon"

//go:embed lexicon
var Lexicon embed.FS
