// Package quiz holds the membership quiz that gates equipment checkout.
package quiz

// Question is one multiple-choice question. The answer index is unexported so
// it never leaves the server.
type Question struct {
	ID      int      `json:"id"`
	Prompt  string   `json:"prompt"`
	Choices []string `json:"choices"`
	answer  int
}

var questions = []Question{
	{
		ID:      1,
		Prompt:  "What must you do before taking equipment out of the room?",
		Choices: []string{"Nothing, just take it", "Check it out with your account and a stated purpose", "Leave a note on the whiteboard", "Ask another member to remember"},
		answer:  1,
	},
	{
		ID:      2,
		Prompt:  "Who may return an item that is checked out?",
		Choices: []string{"Anyone who finds it", "Any admin only", "The account that checked it out", "The last person to use it"},
		answer:  2,
	},
	{
		ID:      3,
		Prompt:  "An amp you borrowed starts crackling. What do you do when returning it?",
		Choices: []string{"Return it and say nothing", "Hide it at the back of the shelf", "Describe the issue in the return notes", "Keep it until it is fixed"},
		answer:  2,
	},
	{
		ID:      4,
		Prompt:  "Where does equipment go when you are done with it?",
		Choices: []string{"Anywhere in the room", "Back to the location on its label", "The lost-and-found box", "Your locker"},
		answer:  1,
	},
	{
		ID:      5,
		Prompt:  "Food and drinks near the equipment are",
		Choices: []string{"Fine if you are careful", "Fine on weekends", "Never allowed", "Allowed for members only"},
		answer:  2,
	},
	{
		ID:      6,
		Prompt:  "Booking the room for band practice is done by",
		Choices: []string{"Showing up first", "Submitting a room reservation request", "Checking out the room like an item", "Messaging an admin privately"},
		answer:  1,
	},
}

// Questions returns the quiz without answers.
func Questions() []Question {
	out := make([]Question, len(questions))
	copy(out, questions)
	return out
}

type Result struct {
	Correct int  `json:"correct"`
	Total   int  `json:"total"`
	Passed  bool `json:"passed"`
}

// Grade scores a submission keyed by question ID. Every question must be
// answered correctly to pass; a missing answer counts as wrong.
func Grade(answers map[int]int) Result {
	r := Result{Total: len(questions)}
	for _, q := range questions {
		if choice, ok := answers[q.ID]; ok && choice == q.answer {
			r.Correct++
		}
	}
	r.Passed = r.Correct == r.Total
	return r
}
