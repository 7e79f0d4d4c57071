package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/tranvictor/onchaincheck/inspector"
	"github.com/tranvictor/onchaincheck/onchain"
	"github.com/tranvictor/onchaincheck/ui"
	"github.com/tranvictor/onchaincheck/util/marketplace"
)

type stubInspector struct {
	res onchain.Result
	err error
	got []inspector.Request
}

func (s *stubInspector) Inspect(ctx context.Context, req inspector.Request) (onchain.Result, error) {
	s.got = append(s.got, req)
	return s.res, s.err
}

func TestRunClassifyTable(t *testing.T) {
	u := ui.NewRecordingUI()
	in := &stubInspector{res: onchain.Result{ShortURI: "data:application/json;base64,eyJpbWFnZSI6", Type: onchain.FullyOnChain}}

	err := runClassify(context.Background(), u, in, inspector.Request{CollectionSlug: "blitmap"}, false)
	if err != nil {
		t.Fatalf("runClassify: %s", err)
	}
	for _, want := range []string{"Collection | blitmap", "Type | fully on-chain", "Code | 1"} {
		if !u.HasMessage(want) {
			t.Errorf("missing %q in %+v", want, u.Entries())
		}
	}
	if len(u.ErrorMessages()) != 0 {
		t.Errorf("unexpected errors: %v", u.ErrorMessages())
	}
}

func TestRunClassifyJSON(t *testing.T) {
	u := ui.NewRecordingUI()
	in := &stubInspector{res: onchain.UnknownResult()}

	if err := runClassify(context.Background(), u, in, inspector.Request{ContractAddress: "0xbc4ca0eda7647a8ab7c2061c2e118a18a936f13d"}, true); err != nil {
		t.Fatalf("runClassify: %s", err)
	}
	got := onchain.Result{}
	if err := json.Unmarshal([]byte(u.Output()), &got); err != nil {
		t.Fatalf("output %q is not JSON: %s", u.Output(), err)
	}
	if got != onchain.UnknownResult() {
		t.Errorf("result = %+v", got)
	}
}

func TestRunClassifyError(t *testing.T) {
	u := ui.NewRecordingUI()
	in := &stubInspector{err: marketplace.ErrResolution}

	err := runClassify(context.Background(), u, in, inspector.Request{CollectionSlug: "nope"}, false)
	if !errors.Is(err, marketplace.ErrResolution) {
		t.Fatalf("err = %v", err)
	}
	if len(u.ErrorMessages()) != 1 {
		t.Errorf("errors = %v", u.ErrorMessages())
	}
}

func TestRequestFromArg(t *testing.T) {
	if req := requestFromArg("0xbc4ca0eda7647a8ab7c2061c2e118a18a936f13d"); req.ContractAddress == "" || req.CollectionSlug != "" {
		t.Errorf("address arg = %+v", req)
	}
	if req := requestFromArg("boredapeyachtclub"); req.CollectionSlug != "boredapeyachtclub" || req.ContractAddress != "" {
		t.Errorf("slug arg = %+v", req)
	}
}
