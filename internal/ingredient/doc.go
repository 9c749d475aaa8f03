// Package ingredient resolves free-text ingredient names typed in any
// language to a single canonical ingredient.
//
// Resolution tries, in order: the canonical English names (English input),
// the translated names of the input language, the English names with the
// raw input (the author typed English in a foreign UI), and the English
// names with a machine translation of the input. When nothing matches, a
// new canonical ingredient is created with singular and plural English
// forms derived by the plural package.
package ingredient
