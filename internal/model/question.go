package model

// Question represents a single multiple-choice question of a simulado.
// Answer must be one of Options.
type Question struct {
	ID         string   `json:"id"`
	ExamID     string   `json:"exam_id,omitempty"`
	Area       string   `json:"area"`
	Content    string   `json:"content"`
	Subtheme   string   `json:"subtheme,omitempty"`
	Origin     string   `json:"origin,omitempty"`
	Difficulty string   `json:"difficulty,omitempty"`
	Year       *int     `json:"year,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Text       string   `json:"text"`
	Options    []string `json:"options"`
	Answer     string   `json:"answer"`
	Images     []string `json:"images,omitempty"`
}

// HasOption reports whether label is one of the question's options.
func (q *Question) HasOption(label string) bool {
	for _, o := range q.Options {
		if o == label {
			return true
		}
	}
	return false
}

// HasTag reports whether the question carries tag.
func (q *Question) HasTag(tag string) bool {
	for _, t := range q.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ForStudent strips the answer key.
func (q *Question) ForStudent() QuestionForStudent {
	return QuestionForStudent{
		ID:         q.ID,
		ExamID:     q.ExamID,
		Area:       q.Area,
		Content:    q.Content,
		Subtheme:   q.Subtheme,
		Origin:     q.Origin,
		Difficulty: q.Difficulty,
		Year:       q.Year,
		Tags:       q.Tags,
		Text:       q.Text,
		Options:    q.Options,
		Images:     q.Images,
	}
}

// QuestionForStudent is a question without the correct answer, served when
// browsing the bank or sitting an exam.
type QuestionForStudent struct {
	ID         string   `json:"id"`
	ExamID     string   `json:"exam_id,omitempty"`
	Area       string   `json:"area"`
	Content    string   `json:"content"`
	Subtheme   string   `json:"subtheme,omitempty"`
	Origin     string   `json:"origin,omitempty"`
	Difficulty string   `json:"difficulty,omitempty"`
	Year       *int     `json:"year,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Text       string   `json:"text"`
	Options    []string `json:"options"`
	Images     []string `json:"images,omitempty"`
}

// ForStudents strips the answer key from every question.
func ForStudents(questions []Question) []QuestionForStudent {
	out := make([]QuestionForStudent, len(questions))
	for i := range questions {
		out[i] = questions[i].ForStudent()
	}
	return out
}

// CreateQuestionRequest is the payload for one question in a bank import.
type CreateQuestionRequest struct {
	ID         string   `json:"id" binding:"required,max=64"`
	Area       string   `json:"area" binding:"required,max=100"`
	Content    string   `json:"content" binding:"max=100"`
	Subtheme   string   `json:"subtheme" binding:"max=100"`
	Origin     string   `json:"origin" binding:"max=50"`
	Difficulty string   `json:"difficulty" binding:"max=30"`
	Year       *int     `json:"year" binding:"omitempty,min=1900,max=2100"`
	Tags       []string `json:"tags" binding:"omitempty,dive,required,max=50"`
	Text       string   `json:"text" binding:"required"`
	Options    []string `json:"options" binding:"required,min=2,max=10,dive,required,max=10"`
	Answer     string   `json:"answer" binding:"required,max=10"`
	Images     []string `json:"images" binding:"omitempty,dive,required"`
}

// ToQuestion converts the request into a question of examID.
func (r *CreateQuestionRequest) ToQuestion(examID string) Question {
	return Question{
		ID:         r.ID,
		ExamID:     examID,
		Area:       r.Area,
		Content:    r.Content,
		Subtheme:   r.Subtheme,
		Origin:     r.Origin,
		Difficulty: r.Difficulty,
		Year:       r.Year,
		Tags:       r.Tags,
		Text:       r.Text,
		Options:    r.Options,
		Answer:     r.Answer,
		Images:     r.Images,
	}
}

// ImportQuestionsRequest is the payload for bulk importing questions into one exam.
type ImportQuestionsRequest struct {
	ExamID    string                  `json:"exam_id" binding:"required,max=64"`
	Questions []CreateQuestionRequest `json:"questions" binding:"required,min=1,dive"`
}
