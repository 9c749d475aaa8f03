// Package catalog defines the recipe catalogue records shared by the
// resolver, the translation cache and the store: canonical ingredients,
// recipes and a recipe's use of an ingredient, together with the
// per-language cache maps they carry.
package catalog
