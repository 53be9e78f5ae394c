// Package star reads and writes the STAR family of formats that NEF and
// NMR-STAR are written in.
//
// A file holds one data block (the Entry). The data block holds save
// frames, each with a list of tag/value pairs and a list of loops.
// We keep everything as text. A value of "." or "?" is empty, the
// validator is the one that decides what a cell means.
//
// Notes on the format, as far as we care about it:
//  1. data_NAME starts the entry. save_NAME starts a save frame and a bare
//     save_ ends it.
//  2. loop_ is followed by tags (each starting with "_") and then values,
//     filled in row by row. NMR-STAR and NEF finish each loop with stop_.
//     We accept a loop without stop_ if the next thing is clearly not
//     a value.
//  3. Values with blanks are quoted with ' or ". A quote only closes a
//     value if it is followed by white space. Values with new lines go in
//     text fields, which start and finish with a ";" in the first column.
//  4. "#" outside a value starts a comment that runs to the end of line.
//
// Some files are only a save frame or only a loop. Read tells you
// which with Document.Shape.
package star
