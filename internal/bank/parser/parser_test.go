package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bankbuddy/internal/bank/models"
	id "bankbuddy/pkg/domain"
)

func TestParseTransfer(t *testing.T) {
	t.Run("parses canonical instruction", func(t *testing.T) {
		req, err := ParseTransfer("send 100rs to bob@oksbi pin=1234")
		require.NoError(t, err)
		assert.Equal(t, id.Amount(100), req.Amount)
		assert.Equal(t, id.PaymentAddress("bob@oksbi"), req.Recipient)
		assert.Equal(t, "1234", req.PIN)
	})

	t.Run("tolerates spacing and currency variants", func(t *testing.T) {
		cases := []string{
			"send 250 rs to bob@oksbi pin=4321",
			"please transfer 250rupees to bob@oksbi, pin: 4321",
			"250 INR to bob@oksbi pin 4321 thanks",
			"pay 250₹ to bob@oksbi pin=4321",
		}
		for _, text := range cases {
			req, err := ParseTransfer(text)
			require.NoError(t, err, "text %q", text)
			assert.Equal(t, id.Amount(250), req.Amount, "text %q", text)
			assert.Equal(t, "4321", req.PIN, "text %q", text)
		}
	})

	t.Run("normalizes recipient case", func(t *testing.T) {
		req, err := ParseTransfer("send 50rs to Bob@OkSBI pin=1234")
		require.NoError(t, err)
		assert.Equal(t, id.PaymentAddress("bob@oksbi"), req.Recipient)
	})

	t.Run("accepts six digit pins", func(t *testing.T) {
		req, err := ParseTransfer("send 10rs to bob@oksbi pin=123456")
		require.NoError(t, err)
		assert.Equal(t, "123456", req.PIN)
	})

	t.Run("denies as malformed with usage hint", func(t *testing.T) {
		cases := []string{
			"",
			"send money to bob@oksbi pin=1234",
			"send 100rs to bob@oksbi",
			"send 100rs to bob pin=1234",
			"send 100rs to bob@oksbi pin=12",
			"100 dollars to bob@oksbi pin=1234",
		}
		for _, text := range cases {
			_, err := ParseTransfer(text)
			require.Error(t, err, "text %q", text)
			denial, ok := models.AsDenial(err)
			require.True(t, ok, "text %q", text)
			assert.Equal(t, models.ReasonMalformedRequest, denial.Reason)
			assert.Equal(t, TransferUsageHint, denial.Message)
		}
	})
}

func TestParseFraudReport(t *testing.T) {
	t.Run("parses report instruction", func(t *testing.T) {
		addr, err := ParseFraudReport("report scammer@okfraud")
		require.NoError(t, err)
		assert.Equal(t, id.PaymentAddress("scammer@okfraud"), addr)
	})

	t.Run("finds address in surrounding text", func(t *testing.T) {
		addr, err := ParseFraudReport("I want to report scammer@okfraud, they took my money")
		require.NoError(t, err)
		assert.Equal(t, id.PaymentAddress("scammer@okfraud"), addr)
	})

	t.Run("denies when no address follows report", func(t *testing.T) {
		for _, text := range []string{"report", "report this please", "scammer@okfraud"} {
			_, err := ParseFraudReport(text)
			require.Error(t, err, "text %q", text)
			denial, ok := models.AsDenial(err)
			require.True(t, ok)
			assert.Equal(t, models.ReasonMalformedRequest, denial.Reason)
		}
	})
}

func TestRoutingHeuristics(t *testing.T) {
	assert.True(t, LooksLikeTransfer("send 100rs to bob@oksbi pin=1234"))
	assert.True(t, LooksLikeTransfer("Send money TO my friend"))
	assert.False(t, LooksLikeTransfer("what is my balance"))

	assert.True(t, LooksLikeReport("report scammer@okfraud"))
	assert.False(t, LooksLikeReport("send 100rs to bob@oksbi pin=1234"))
}
