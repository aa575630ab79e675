package source

import (
	"context"
	"fmt"
	"time"
)

const northPage = `<html><body>
<table><tr><td class="giai1"><div>outside</div></td></tr></table>
<div class="box_kqxs">
  <table class="bkqmienbac">
    <tr><td class="giaidb"><div>12345</div></td></tr>
    <tr><td class="giai1"><div>67890</div></td></tr>
    <tr><td class="giai2"><div>11111</div><div>22222</div></td></tr>
    <tr><td class="tinh"><div>Hà Nội</div></td></tr>
    <tr><td class="giai7"><div>01</div><div><b>02</b></div></td></tr>
  </table>
</div>
</body></html>`

const southPage = `<html><body>
<div class="box_kqxs">
  <table class="content"><tbody><tr>
    <td class="leftcl">labels</td>
    <td><table><tbody><tr>
      <td><table><tbody>
        <tr><td class="giai8"><div>A8</div></td></tr>
        <tr><td class="giai7"><div>A7</div></td></tr>
      </tbody></table></td>
      <td><table><tbody>
        <tr><td class="giai8"><div>B8</div></td></tr>
      </tbody></table></td>
    </tr></tbody></table></td>
  </tr></tbody></table>
</div>
</body></html>`

const aggregatorPage = `<html><body>
<div class="js-layout-content">
  <div class="js-space-item">
    <div class="js-header-title">Xổ số TP. HCM</div>
    <div class="js-table-tbody">
      <div class="js-table-row"><div class="js-table-cell">Giải</div><div class="js-table-cell">Số</div></div>
      <div class="js-table-row">
        <div class="js-table-cell">G8</div>
        <div class="js-table-cell"><div class="js-row"><div class="js-col"><div>12</div></div></div></div>
      </div>
      <div class="js-table-row">
        <div class="js-table-cell">G7</div>
        <div class="js-table-cell"><div class="js-row">
          <div class="js-col"><div>345</div></div>
          <div class="js-col"><div><span class="js-spin"></span></div></div>
        </div></div>
      </div>
    </div>
  </div>
  <div class="js-space-item">
    <div class="js-header-title">Xổ số Đồng Nai</div>
    <div class="js-table-tbody">
      <div class="js-table-row"><div class="js-table-cell">Giải</div><div class="js-table-cell">Số</div></div>
      <div class="js-table-row">
        <div class="js-table-cell">G8</div>
        <div class="js-table-cell"><div class="js-row"><div class="js-col"><div>99</div></div></div></div>
      </div>
    </div>
  </div>
</div>
</body></html>`

const shiftPage = `<html><body>
<table class="table">
  <thead><tr><th>Shift</th><th>A</th><th>B</th></tr></thead>
  <tbody>
    <tr><td>Morning</td><td>12</td><td>34</td></tr>
    <tr><td>Evening</td><td>56</td><td>78</td><td><b>90</b></td></tr>
  </tbody>
</table>
</body></html>`

// fakePage records the calls an extractor makes and serves canned HTML.
type fakePage struct {
	html   string
	calls  []string
	failOn string
	err    error
}

func (p *fakePage) record(call string) error {
	p.calls = append(p.calls, call)
	if p.failOn != "" && len(call) >= len(p.failOn) && call[:len(p.failOn)] == p.failOn {
		return p.err
	}
	return nil
}

func (p *fakePage) Navigate(_ context.Context, url string, timeout time.Duration) error {
	return p.record(fmt.Sprintf("Navigate %s %s", url, timeout))
}

func (p *fakePage) WaitVisible(_ context.Context, selector string, _ time.Duration) error {
	return p.record("WaitVisible " + selector)
}

func (p *fakePage) WaitElement(_ context.Context, selector string, _ time.Duration) error {
	return p.record("WaitElement " + selector)
}

func (p *fakePage) Fill(_ context.Context, selector, text string) error {
	return p.record(fmt.Sprintf("Fill %s %s", selector, text))
}

func (p *fakePage) Submit(_ context.Context, selector, text string, _ time.Duration) error {
	return p.record(fmt.Sprintf("Submit %s %s", selector, text))
}

func (p *fakePage) Click(_ context.Context, selector string) error {
	return p.record("Click " + selector)
}

func (p *fakePage) HTML(_ context.Context) (string, error) {
	if err := p.record("HTML"); err != nil {
		return "", err
	}
	return p.html, nil
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}
