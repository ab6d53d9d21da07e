// Scout classifies chat messages as graphic design requests and turns them
// into briefs, mockups and specs with Gemini.
//
// Usage:
//
//	# Classify a message
//	scout analyze "I need a logo for my bakery by Friday, budget around $200"
//
//	# Write a design brief for it
//	scout brief --file message.txt
//
//	# Run the HTTP API
//	scout serve --config scout.yaml
//
//	# Classify a stream of chat messages from Kafka
//	scout monitor --source kafka --brokers localhost:9092
//
//	# Query stored analyses
//	scout history list --requests-only --since 24h
package main

func main() {
	Execute()
}
