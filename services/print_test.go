package services

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"
)

func stubPrinter(timeout time.Duration, render func(ctx context.Context, html []byte) ([]byte, error)) *PDFPrinter {
	p := NewPDFPrinter(PrintOptions{Timeout: timeout})
	p.render = render
	return p
}

func TestPDFPrinter_TimeoutBecomesRenderTimeoutError(t *testing.T) {
	p := stubPrinter(20*time.Millisecond, func(ctx context.Context, _ []byte) ([]byte, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})

	_, err := p.Print(context.Background(), []byte("<html></html>"))
	var rte *RenderTimeoutError
	if !errors.As(err, &rte) {
		t.Fatalf("Print() error = %v, want *RenderTimeoutError", err)
	}
	if rte.Backend != "chromium" || rte.Timeout != 20*time.Millisecond {
		t.Errorf("unexpected error fields: %+v", rte)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("RenderTimeoutError should unwrap to context.DeadlineExceeded")
	}
}

func TestPDFPrinter_CallerDeadline(t *testing.T) {
	p := stubPrinter(time.Minute, func(ctx context.Context, _ []byte) ([]byte, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()

	_, err := p.Print(ctx, nil)
	var rte *RenderTimeoutError
	if !errors.As(err, &rte) {
		t.Fatalf("Print() error = %v, want *RenderTimeoutError", err)
	}
}

func TestPDFPrinter_OtherFailures(t *testing.T) {
	boom := errors.New("chromium not found")
	p := stubPrinter(time.Second, func(context.Context, []byte) ([]byte, error) {
		return nil, boom
	})

	_, err := p.Print(context.Background(), nil)
	if !errors.Is(err, boom) {
		t.Fatalf("Print() error = %v, want wrapped %v", err, boom)
	}
	var rte *RenderTimeoutError
	if errors.As(err, &rte) {
		t.Error("non-deadline failure must not be reported as a timeout")
	}
}

func TestPDFPrinter_SingleAttempt(t *testing.T) {
	calls := 0
	p := stubPrinter(time.Second, func(context.Context, []byte) ([]byte, error) {
		calls++
		return nil, errors.New("crash")
	})
	_, _ = p.Print(context.Background(), nil)
	if calls != 1 {
		t.Errorf("render called %d times, want 1", calls)
	}
}

func TestPDFPrinter_PrintDocumentPassesPreview(t *testing.T) {
	_, _, doc := layoutFixture(t, 2)
	var got []byte
	p := stubPrinter(time.Second, func(_ context.Context, html []byte) ([]byte, error) {
		got = html
		return []byte("%PDF-1.4"), nil
	})

	out, err := p.PrintDocument(context.Background(), doc, "Proposta")
	if err != nil {
		t.Fatalf("PrintDocument() error = %v", err)
	}
	if string(out) != "%PDF-1.4" {
		t.Errorf("out = %q", out)
	}
	if !bytes.Contains(got, []byte(`class="page"`)) {
		t.Error("printer did not receive the HTML preview")
	}
}

func TestPDFPrinter_DefaultTimeout(t *testing.T) {
	if got := NewPDFPrinter(PrintOptions{}).Timeout(); got != DefaultPrintTimeout {
		t.Errorf("Timeout() = %v, want %v", got, DefaultPrintTimeout)
	}
}
