package wallet

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/bus-booking-client/internal/apiclient"
	"github.com/iliyamo/bus-booking-client/internal/model"
)

type fakeAPI struct {
	mu        sync.Mutex
	responses map[string]string
	posted    []any
	fail      error
}

func (f *fakeAPI) Get(_ context.Context, path string, _ url.Values, out any) error {
	if f.fail != nil {
		return f.fail
	}
	return json.Unmarshal([]byte(f.responses["GET "+path]), out)
}

func (f *fakeAPI) Post(_ context.Context, path string, body, out any) error {
	f.mu.Lock()
	f.posted = append(f.posted, body)
	f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	return json.Unmarshal([]byte(f.responses["POST "+path]), out)
}

func TestParseTopUp(t *testing.T) {
	req, err := ParseTopUp(" 1,500.50 ")
	require.NoError(t, err)
	assert.Equal(t, model.FromFloat(1500.5), req.Amount)

	for _, bad := range []string{"", "abc", "0", "-20", "NaN"} {
		_, err := ParseTopUp(bad)
		assert.ErrorIs(t, err, ErrInvalidAmount, bad)
	}
}

func TestTopUp(t *testing.T) {
	api := &fakeAPI{responses: map[string]string{
		"POST /wallet/add": `{"id":1,"balance":1500}`,
	}}
	w, err := New(api).TopUp(context.Background(), QuickAmounts[1])
	require.NoError(t, err)
	assert.Equal(t, model.Rupees(1500), w.Balance)
	require.Len(t, api.posted, 1)
	assert.Equal(t, model.TopUpRequest{Amount: model.Rupees(1000)}, api.posted[0])

	_, err = New(api).TopUp(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Len(t, api.posted, 1)
}

func TestTopUpMessageOnlyResponseRereads(t *testing.T) {
	api := &fakeAPI{responses: map[string]string{
		"POST /wallet/add": `{"message":"Money added successfully"}`,
		"GET /wallet":      `{"id":1,"balance":700}`,
	}}
	w, err := New(api).TopUp(context.Background(), model.Rupees(200))
	require.NoError(t, err)
	assert.Equal(t, model.Rupees(700), w.Balance)
}

func TestOverview(t *testing.T) {
	api := &fakeAPI{responses: map[string]string{
		"GET /wallet":              `{"id":1,"balance":250.75}`,
		"GET /wallet/transactions": `{"transactions":[{"id":1,"type":"credit","amount":500,"description":"Top up"},{"id":2,"type":"debit","amount":249.25,"description":"Booking BK-1"}]}`,
	}}
	ov, err := New(api).Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "250.75", ov.Wallet.Balance.String())
	require.Len(t, ov.Transactions, 2)
	assert.Equal(t, "+500", ov.Transactions[0].Signed())
	assert.Equal(t, "-249", ov.Transactions[1].Signed())

	api.fail = apiclient.ErrNetwork
	_, err = New(api).Overview(context.Background())
	assert.ErrorIs(t, err, apiclient.ErrNetwork)
}
