// Package recipe renders recipes in any language and keeps the per-language
// translation caches coherent.
//
// The Orchestrator implements get-or-translate-and-persist for recipe
// fields, ingredient display names and per-use ingredient notes. The
// Updater retranslates only the fields that changed on edit, for every
// language already cached. Service is the authoring entry point: it
// resolves ingredient names, saves the recipe and triggers the Updater.
// Sharer serves public recipes by share token through the same rendering
// path.
package recipe
