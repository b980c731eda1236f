package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// ExamQuestionsKey returns the cache key for an exam's questions (with answer key).
func (r *CacheKeyStruct) ExamQuestionsKey(examID string) string {
	return fmt.Sprintf("exam:%s:questions", examID)
}

// ExamIndexKey returns the cache key for the set of known exam ids.
func (r *CacheKeyStruct) ExamIndexKey() string {
	return "exams:index"
}

var CacheKey = NewCacheKeyStruct()
