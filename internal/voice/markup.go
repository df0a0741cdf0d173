package voice

import "encoding/xml"

// The provider fetches call instructions as a small XML document: a
// <Response> wrapping either a <Say> (text-to-speech) or a <Play> (hosted
// audio). Message text and URLs are caller-supplied, so everything goes
// through encoding/xml rather than string concatenation.

type markupResponse struct {
	XMLName xml.Name    `xml:"Response"`
	Say     *sayAction  `xml:"Say,omitempty"`
	Play    *playAction `xml:"Play,omitempty"`
}

type sayAction struct {
	Voice string `xml:"voice,attr"`
	Text  string `xml:",chardata"`
}

type playAction struct {
	URL string `xml:"url,attr"`
}

const xmlDeclaration = `<?xml version="1.0"?>` + "\n"

// RenderSay produces speak-this markup for a text-to-speech message.
func RenderSay(voice VoiceType, message string) string {
	return render(markupResponse{Say: &sayAction{Voice: string(ParseVoiceType(string(voice))), Text: message}})
}

// RenderPlay produces play-this markup for a hosted audio URL.
func RenderPlay(audioURL string) string {
	return render(markupResponse{Play: &playAction{URL: audioURL}})
}

// RenderSession picks the right action for a session: Play when an audio
// URL is present, Say otherwise.
func RenderSession(s Session) string {
	if s.AudioURL != "" {
		return RenderPlay(s.AudioURL)
	}
	return RenderSay(s.Voice, s.Message)
}

func render(r markupResponse) string {
	out, err := xml.Marshal(r)
	if err != nil {
		// Marshalling a fixed struct of strings cannot fail at runtime;
		// return an empty response rather than breaking the live call.
		return xmlDeclaration + "<Response></Response>"
	}
	return xmlDeclaration + string(out)
}
