// Package triage implements the recommendation core for the LPH care
// pathway: the age segmenter, the symptom flag extractor, the ordered
// rule table, and the Service that combines them with the external text
// refinement collaborator.
package triage
