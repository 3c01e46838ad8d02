// Package csvimport turns delimited text into new, unreviewed cards.
//
// Each line holds lesson, question and answer separated by semicolons, or by
// tabs when a line has fewer than three semicolon-separated fields. Extra
// columns are ignored, lines with fewer than three usable fields are skipped,
// and no header row is expected.
package csvimport
