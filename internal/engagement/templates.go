package engagement

import "github.com/prahari-ai/honeypot-platform/internal/detection"

// Reply templates per strategy. The persona is a slow, cooperative victim
// with nothing real to give: every apparent compliance is feigned, and no
// template ever carries genuine personal data.

var holdingTemplates = []string{
	"Hello, I received your message. Could you tell me more about this?",
	"Hi, I'm not sure what this is regarding. Can you explain?",
	"Hello, I saw your message. What is this about?",
	"I got your message but I'm not sure what it's about. Can you clarify?",
}

var initialConfusionTemplates = []string{
	"I'm not sure I understand. Can you explain what this is about?",
	"Sorry, I didn't quite get that. What do you need from me?",
	"I'm a bit confused. Could you clarify?",
	"What is this regarding? I don't recall anything about this.",
	"Could you explain this in simpler terms? I'm not following.",
}

var showInterestTemplates = []string{
	"Oh, that sounds important. What should I do?",
	"I see. How do I proceed with this?",
	"Okay, I want to make sure I don't miss this. What are the next steps?",
	"This seems urgent. Please guide me on what to do.",
	"Alright, I'm listening. What do you need from me?",
}

// requestDetailsTemplates take the extracted token verbatim via %s.
var requestDetailsTemplates = []string{
	"I see you mentioned %s. Is this where I should send the money? Whose account is this?",
	"Can you confirm %s is correct? I want to be sure before I transfer anything.",
	"You sent %s. Is this the official account? Should I use this one?",
	"Before I do anything, can you verify %s once more for me?",
}

var technicalDifficultyTemplates = []string{
	"I tried clicking the link but it's not opening. Can you send it again?",
	"The link isn't working on my phone. Can you tell me what to do without it?",
	"My browser says it can't open this page. Is there another way?",
	"The link won't load. Can you just tell me the website name?",
	"I'm having trouble opening this. Could you send it on SMS instead?",
}

var gradualComplianceTemplates = []string{
	"Okay, I think I understand now. Where exactly should I send it?",
	"Alright, I'm ready to do this. How do I share it with you?",
	"I don't want any problems. Tell me where to send what you need.",
	"Fine, I'll cooperate. Should I type it here or somewhere else?",
}

var askForCredentialsTemplates = []string{
	"Do you need my account number? Where should I send it?",
	"Should I share my bank details with you? What's your UPI ID?",
	"I have my details ready. Which account should the money go to?",
	"Should I provide my UPI ID? Or do you have an account number for me?",
	"What account information is required? Give me the exact details.",
}

// interestFlavors color show_interest per scam type.
var interestFlavors = map[detection.ScamType][]string{
	detection.ScamTypeLotteryPrize: {
		"Really? I won something? That's amazing! How do I claim it?",
		"This is wonderful news! What do I need to do to get my prize?",
		"I'm so excited! Please tell me the steps to claim this.",
	},
	detection.ScamTypeJobScam: {
		"A job opportunity sounds great! What's the position?",
		"I'm very interested! Can you tell me more about the work?",
		"This could be perfect for me. What are the details?",
	},
	detection.ScamTypePaymentScam: {
		"I received money by mistake? I should return it. How do I do that?",
		"A wrong payment? I want to do the right thing. What should I do?",
		"I don't want someone else's money. Please guide me on returning it.",
	},
}

// complianceFlavors color gradual_compliance per scam type.
var complianceFlavors = map[detection.ScamType][]string{
	detection.ScamTypeLotteryPrize: {
		"I'll pay the processing fee. How much and where should I send it?",
		"Okay, I understand I need to pay first. What's the amount?",
		"I'm ready to claim my prize. What payment do you need?",
	},
}
