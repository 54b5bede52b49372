// Package grab walks booru listing pages of a tag and archives every post
// file it finds. Stored files are recorded in a sqlite database so that
// repeated runs only fetch posts that are new or previously failed.
package grab

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	urlmod "net/url"

	"boorukit/network"
	"github.com/charmbracelet/log"
	"github.com/gocolly/colly/v2"
	"github.com/schollz/progressbar/v3"
	"gorm.io/gorm"
)

const imgCntPerPage = 42

// stop advancing listing page number when the number of unfinished tasks
// is greater than this value.
const listPageProgressThreshold = 500

var targetExtensions = []string{".jpg", ".png", ".jpeg", ".gif"}

type Options struct {
	ProxyURL string
	JobCnt   int
	RetryCnt int
	Timeout  time.Duration
	Delay    time.Duration

	IgnoreFailed bool // when set, entries marked dl_failed are not retried
}

type Target struct {
	Options *Options
	DB      *gorm.DB

	BaseURL   string // board URL, e.g. https://rule34.xxx/index.php
	Tag       string
	OutputDir string
	FromPage  int
	ToPage    int
}

// DownloadTag walks listing pages FromPage through ToPage and downloads
// every post file that is not yet present in the archive.
func DownloadTag(target Target) error {
	log.Infof("%s: [%d, %d] -> %s", target.Tag, target.FromPage, target.ToPage, target.OutputDir)

	if err := os.MkdirAll(target.OutputDir, 0o777); err != nil {
		return fmt.Errorf("failed to create output directory %s: %s", target.OutputDir, err)
	}

	collector, _ := makeCollector(&target)
	collector.OnHTML("div.content", onListPage)

	if err := visitListPage(collector, &target, target.FromPage); err != nil {
		return fmt.Errorf("can't start collecting: %s", err)
	}

	collector.Wait()
	fmt.Fprint(os.Stderr, "\n")

	return nil
}

type ctxGlobal struct {
	collector *colly.Collector
	target    *Target
	bar       *progressbar.ProgressBar

	// read by the listing loop without holding the lock, the lock only
	// guards bar max accounting
	unfinishedTaskCnt  atomic.Int64
	lockUnfinishedTask sync.Mutex
}

// changeProgressMax adds delta to max task number of the progress bar.
func changeProgressMax(bar *progressbar.ProgressBar, delta int64) {
	state := bar.State()

	newMax := state.Max + delta
	bar.ChangeMax64(newMax)

	if state.CurrentNum == state.Max {
		bar.Reset()

		if newMax > state.CurrentNum {
			bar.Set64(state.CurrentNum)
		} else {
			bar.Set64(newMax)
		}
	}
}

// changeUnfinishedTaskCnt updates unfinished task counter with given difference.
func changeUnfinishedTaskCnt(global *ctxGlobal, delta int64) {
	global.lockUnfinishedTask.Lock()
	defer global.lockUnfinishedTask.Unlock()

	global.unfinishedTaskCnt.Add(delta)

	bar := global.bar
	if delta > 0 {
		changeProgressMax(bar, 1)
	} else if delta < 0 {
		bar.Add(1)
	}
}

func makeCollector(target *Target) (*colly.Collector, *ctxGlobal) {
	c := colly.NewCollector(
		colly.Async(true),
	)
	c.SetRequestTimeout(target.Options.Timeout)

	if target.Options.ProxyURL != "" {
		if err := c.SetProxy(target.Options.ProxyURL); err != nil {
			log.Warnf("failed to set proxy %s: %s", target.Options.ProxyURL, err)
		}
	}

	c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Delay:       target.Options.Delay,
		Parallelism: target.Options.JobCnt,
	})

	bar := progressbar.NewOptions64(
		0,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetWidth(5),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
	)

	global := &ctxGlobal{
		collector: c,
		target:    target,
		bar:       bar,
	}

	c.OnRequest(func(r *colly.Request) {
		r.Ctx.Put("global", global)
	})
	c.OnResponse(func(r *colly.Response) {
		if data, err := network.DecompressResponseBody(r); err == nil {
			r.Body = data
		} else {
			bar.Describe(err.Error())
		}

		if onResponse, ok := r.Ctx.GetAny("onResponse").(colly.ResponseCallback); ok {
			onResponse(r)
		}
	})
	c.OnError(func(r *colly.Response, err error) {
		if onError, ok := r.Ctx.GetAny("onError").(colly.ErrorCallback); ok {
			onError(r, err)
		} else {
			bar.Describe(fmt.Sprintf("error requesting %s: %s", r.Request.URL, err))
		}
	})

	return c, global
}

// visitListPage requests one listing page of the target tag.
func visitListPage(collector *colly.Collector, target *Target, pageNum int) error {
	u, err := urlmod.Parse(target.BaseURL)
	if err != nil {
		return fmt.Errorf("failed to parse base url: %s", err)
	}

	query := u.Query()
	query.Set("page", "post")
	query.Set("s", "list")
	query.Set("tags", target.Tag)
	query.Set("pid", strconv.Itoa((pageNum-1)*imgCntPerPage))
	u.RawQuery = query.Encode()

	ctx := colly.NewContext()
	ctx.Put("pageNum", pageNum)

	return collector.Request("GET", u.String(), nil, ctx, nil)
}

// onListPage handles a listing page fetched by the collector.
func onListPage(e *colly.HTMLElement) {
	e.ForEach("span.thumb a img[src]", onThumbEntry)

	ctx := e.Request.Ctx
	global := ctx.GetAny("global").(*ctxGlobal)
	pageNum := ctx.GetAny("pageNum").(int)
	if pageNum >= global.target.ToPage {
		return
	}

	// Adding tasks is much faster than consuming them. Stop advancing
	// while too many downloads are pending, so download goroutines don't
	// get starved and memory stays bounded.
	for global.unfinishedTaskCnt.Load() > listPageProgressThreshold {
		time.Sleep(time.Second)
	}

	if err := visitListPage(global.collector, global.target, pageNum+1); err != nil {
		log.Warnf("failed to request page %d: %s", pageNum+1, err)
	}
}
