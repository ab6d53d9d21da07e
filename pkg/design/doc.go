// Package design turns design briefs into mockups and technical specs.
//
// Each category (logo, socialMedia, businessCard, flyer) has a template of
// base prompts, dimensions and formats, plus typography, layout, timeline
// and revision suggestions. Unknown categories use the logo template.
//
// A Generator asks its Describer (normally the Gemini client) for a mockup
// description and falls back to a fixed concept description when the call
// fails, so a design is always produced.
package design
