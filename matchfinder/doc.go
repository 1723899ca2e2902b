// Package matchfinder implements the dictionary-backed longest-match search
// shared by LZ-family encoders: given a byte stream and a cursor, it finds
// the longest earlier occurrences of the bytes at the cursor and reports
// them as (length, distance) candidates, without making any entropy-coding
// or block-framing decisions itself.
//
// A Finder binds exactly one dictionary store (hash-chain, binary-search-
// tree, or cache-efficient hash-chain) at Create time based on Config, and
// never branches between them on the hot path. Callers drive it one
// position at a time with GetMatches and Skip.
package matchfinder
