package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordChatReply(t *testing.T) {
	before := testutil.ToFloat64(ChatRepliesTotal.WithLabelValues("rules", "greeting"))
	RecordChatReply("rules", "greeting")
	assert.Equal(t, before+1, testutil.ToFloat64(ChatRepliesTotal.WithLabelValues("rules", "greeting")))
}

func TestRecordLLMCompletionCountsTokens(t *testing.T) {
	in := testutil.ToFloat64(LLMTokensTotal.WithLabelValues("gpt-test", "in"))
	out := testutil.ToFloat64(LLMTokensTotal.WithLabelValues("gpt-test", "out"))

	RecordLLMCompletion("gpt-test", "success", 0.4, 12, 30)

	assert.Equal(t, in+12, testutil.ToFloat64(LLMTokensTotal.WithLabelValues("gpt-test", "in")))
	assert.Equal(t, out+30, testutil.ToFloat64(LLMTokensTotal.WithLabelValues("gpt-test", "out")))
}
