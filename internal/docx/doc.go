// Package docx reads and writes DOCX packages at the level the renderer
// needs: the document XML is exposed as text for token substitution and row
// splicing, while every other package part survives a save byte-for-byte.
// It also serializes generated grid rows to WordprocessingML, including the
// w:vMerge cell properties that realize row-spanning shared columns.
//
// Operating on the document XML as text rather than round-tripping it through
// a typed model keeps untouched markup exactly as authored, which is what
// makes repeated renders of the same template and bindings byte-identical.
package docx
