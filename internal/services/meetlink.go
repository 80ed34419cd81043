package services

import (
	"crypto/rand"
	"strings"
)

const meetCodeAlphabet = "abcdefghijklmnopqrstuvwxyz"

// newMeetingLink builds a placeholder xxx-xxxx-xxx meeting URL for video
// meetings. It is a stub; real conferencing integration is out of scope.
func newMeetingLink() string {
	code := make([]byte, 10)
	rand.Read(code)
	for i := range code {
		code[i] = meetCodeAlphabet[int(code[i])%len(meetCodeAlphabet)]
	}
	var b strings.Builder
	b.WriteString("https://meet.peerlink.app/")
	b.Write(code[0:3])
	b.WriteByte('-')
	b.Write(code[3:7])
	b.WriteByte('-')
	b.Write(code[7:10])
	return b.String()
}
