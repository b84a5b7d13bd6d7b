package quotes

import "ham-kiosk/dashboard/internal/models"

// Corpus is the built-in quote list shown in the kiosk footer.
var Corpus = []models.Quote{
	{Text: "All my antennas work great... in EZNEC", Author: "Anonymous"},
	{Text: "I'm not talking to myself, I'm on CW", Author: "Anonymous"},
	{Text: "When all else fails... Amateur Radio", Author: "ARRL"},
	{Text: "Keep calm and call CQ", Author: "Anonymous"},
	{Text: "Real radios glow in the dark", Author: "Tube Radio Enthusiast"},
	{Text: "Sleep is optional during contest weekend", Author: "Contest Operator"},
	{Text: "QRP: When you care enough to send the very least", Author: "Anonymous"},
	{Text: "I don't need a therapist, I have a radio", Author: "Anonymous"},
	{Text: "I don't always operate portable, but when I do, I forget the batteries", Author: "Field Day Operator"},
	{Text: "Ham radio operators are just tech-savvy introverts", Author: "Anonymous"},
	{Text: "I don't always work DX, but when I do, it's on 20 meters", Author: "DXer"},
	{Text: "My antenna is bigger than yours", Author: "Anonymous"},
	{Text: "I'm not a nerd, I'm a ham radio operator", Author: "Anonymous"},
	{Text: "I'm not addicted to ham radio, I can quit anytime... after this QSO", Author: "Anonymous"},
	{Text: "My neighbors think I'm a spy with all these antennas", Author: "Anonymous"},
	{Text: "A bad day of DXing is still better than a good day at work", Author: "DXer"},
	{Text: "If at first you don't succeed, call CQ again", Author: "Anonymous"},
	{Text: "Wire antennas: Nature's way of saying 'watch your step'", Author: "Anonymous"},
	{Text: "CW is just texting for grown-ups", Author: "Morse Enthusiast"},
	{Text: "You can never have too many ferrite beads", Author: "RFI Fighter"},
	{Text: "I only work rare DX when my antenna is broken", Author: "Murphy's Law Operator"},
	{Text: "SWR - Some Will Radiate", Author: "Anonymous"},
	{Text: "I'm not ignoring you, I just heard DX", Author: "Anonymous"},
	{Text: "I speak fluent dits and dahs", Author: "CW Operator"},
	{Text: "QSL cards: Proof I'm not just talking to myself", Author: "Anonymous"},
	{Text: "The perfect antenna is always the next one I build", Author: "Antenna Builder"},
	{Text: "Life is too short for low power", Author: "Amplifier Enthusiast"},
	{Text: "I came, I saw, I contacted", Author: "POTA Activator"},
	{Text: "You had me at CQ", Author: "Anonymous"},
	{Text: "Batteries not included, patience required", Author: "Field Day Operator"},
	{Text: "RTTY: When you want to type but also want RF exposure", Author: "Digital Mode Enthusiast"},
	{Text: "Ham radio operators have more contacts", Author: "Anonymous"},
	{Text: "Morse code: The original text message", Author: "CW Enthusiast"},
}
