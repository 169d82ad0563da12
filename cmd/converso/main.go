// Converso is a voice-first assistant client: it captures speech or typed
// commands, sends them to a remote assistant backend, renders the replies,
// and keeps a durable local conversation history.
//
// Usage:
//
//	converso chat
//	converso send "acende a luz da sala"
//	converso history export --format md
//	converso feedback --rating 5 --message "funciona muito bem"
package main

func main() {
	Execute()
}
