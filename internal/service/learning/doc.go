// Package learning implements the study loop: selecting which cards a
// person should review next and folding difficulty grades back into their
// learning progress through the spaced-repetition scheduler.
package learning
