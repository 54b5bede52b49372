package grab

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"time"

	"boorukit/database/data_model"
	"boorukit/network"
	"github.com/charmbracelet/log"
	"github.com/gocolly/colly/v2"
	"gorm.io/gorm"
)

var thumbRatingPattern = regexp.MustCompile(`rating:(\w+)`)

// onThumbEntry handles one thumbnail image found on a listing page.
func onThumbEntry(imgIndex int, e *colly.HTMLElement) {
	src := e.Attr("src")
	if src == "" {
		return
	}

	ctx := e.Request.Ctx
	global := ctx.GetAny("global").(*ctxGlobal)
	target := global.target

	entry := &data_model.PostEntry{}
	target.DB.Limit(1).Find(entry, "thumbnail_url = ?", src)

	if checkEntryValid(entry, target.OutputDir, target.Options) {
		bar := global.bar
		bar.Describe("")
		changeProgressMax(bar, 1)
		bar.Add64(1)
		return
	}

	urlList, err := candidateFileURLs(src)
	if err != nil {
		global.bar.Describe(fmt.Sprintf("failed to derive file URLs for %s: %s", src, err))
		return
	}
	if entry.ContentURL != "" {
		urlList = slices.Insert(urlList, 0, entry.ContentURL)
	}

	rating := ""
	if match := thumbRatingPattern.FindStringSubmatch(e.Attr("title")); match != nil {
		rating = match[1]
	}

	newCtx := colly.NewContext()
	newCtx.Put("global", global)
	newCtx.Put("thumbnailURL", src)
	newCtx.Put("rating", rating)
	newCtx.Put("imgIndex", imgIndex)
	newCtx.Put("pageNum", ctx.GetAny("pageNum"))
	newCtx.Put("urlList", urlList)
	newCtx.Put("curIndex", int(0))
	newCtx.Put("onResponse", colly.ResponseCallback(sendFileDownloadRequest))
	newCtx.Put("onError", colly.ErrorCallback(onHeadCheckFailed))

	changeUnfinishedTaskCnt(global, 1)

	headCheckNext(newCtx)
}

// headCheckNext checks existence of the current candidate URL with a HEAD
// request. The `onResponse` callback carried by the context decides what
// happens once a candidate answers.
func headCheckNext(ctx *colly.Context) {
	global := ctx.GetAny("global").(*ctxGlobal)
	urlList := ctx.GetAny("urlList").([]string)
	index := ctx.GetAny("curIndex").(int)

	if index >= len(urlList) {
		changeUnfinishedTaskCnt(global, -1)

		pageNum := ctx.GetAny("pageNum").(int)
		imgIndex := ctx.GetAny("imgIndex").(int)
		global.bar.Describe(fmt.Sprintf("failed to find available source for p%d-%d", pageNum, imgIndex))

		return
	}

	global.collector.Request("HEAD", urlList[index], nil, ctx, nil)
}

// onHeadCheckFailed advances the candidate index by one and probes again.
func onHeadCheckFailed(checkResp *colly.Response, _ error) {
	ctx := checkResp.Ctx
	oldIndex := ctx.GetAny("curIndex").(int)
	ctx.Put("curIndex", oldIndex+1)
	headCheckNext(ctx)
}

// sendFileDownloadRequest records an archive entry for the probed URL and
// requests its body for saving. Already up to date local files are
// counted as done without a download.
func sendFileDownloadRequest(r *colly.Response) {
	ctx := r.Ctx
	global := ctx.GetAny("global").(*ctxGlobal)

	outputName, basename := getFileOutputName(r)
	if outputName == "" {
		changeUnfinishedTaskCnt(global, -1)
		return
	}

	contentURL := r.Request.URL.String()

	db := global.target.DB
	entry := &data_model.PostEntry{
		ThumbnailURL: ctx.Get("thumbnailURL"),
		ContentURL:   contentURL,
		FileName:     basename,
		Tag:          global.target.Tag,
		Rating:       ctx.Get("rating"),
	}
	entry.Upsert(db)

	newCtx := makeFileDownloadContext(global, outputName, contentURL, func(ok bool) {
		changeUnfinishedTaskCnt(global, -1)
		updateDlFailedMark(db, contentURL, !ok)
	})

	global.collector.Request("GET", contentURL, nil, newCtx, nil)
}

// makeFileDownloadContext makes a new context for initiating a file download.
func makeFileDownloadContext(global *ctxGlobal, outputName string, contentURL string, onFinished func(ok bool)) *colly.Context {
	bar := global.bar

	newCtx := colly.NewContext()
	newCtx.Put("global", global)
	newCtx.Put("leftRetryCnt", global.target.Options.RetryCnt)

	newCtx.Put("onResponse", colly.ResponseCallback(func(resp *colly.Response) {
		err := resp.Save(outputName)
		if err == nil {
			bar.Describe("")
		} else {
			bar.Describe(fmt.Sprintf("failed to save file %s: %s", outputName, err))
		}

		onFinished(err == nil)
	}))

	newCtx.Put("onError", colly.ErrorCallback(func(resp *colly.Response, err error) {
		if retryErr := network.RetryRequest(resp); retryErr != nil {
			bar.Describe(fmt.Sprintf("error requesting %s: %s", contentURL, err))
			onFinished(false)
		}
	}))

	return newCtx
}

// updateDlFailedMark updates dl_failed mark value of given target.
func updateDlFailedMark(db *gorm.DB, contentURL string, isFailed bool) {
	db.Model(&data_model.PostEntry{}).Where("content_url = ?", contentURL).Update("dl_failed", isFailed)
}

// getFileOutputName checks if the file of given response should be
// downloaded. When the answer is yes, output path and base name are
// returned, else the output path is empty.
func getFileOutputName(r *colly.Response) (string, string) {
	global := r.Ctx.GetAny("global").(*ctxGlobal)

	basename := path.Base(r.Request.URL.Path)
	outputName := filepath.Join(global.target.OutputDir, basename)

	stat, err := os.Stat(outputName)
	if err != nil {
		// can't access local file, download it
		return outputName, basename
	}

	mTime, timeErr := time.Parse(time.RFC1123, r.Headers.Get("Last-Modified"))
	if timeErr == nil && stat.ModTime().Before(mTime) {
		// remote file has been updated
		return outputName, basename
	}

	size, sizeErr := strconv.ParseInt(r.Headers.Get("Content-Length"), 10, 64)
	if sizeErr == nil && size != stat.Size() {
		// file size does not match
		return outputName, basename
	}

	return "", basename
}

// checkEntryValid checks if an archive entry is pointing to a valid file
// on disk.
func checkEntryValid(entry *data_model.PostEntry, outputDir string, options *Options) bool {
	if entry.MarkDeleted {
		return true
	}

	if entry.FileName == "" {
		return false
	}

	if options.IgnoreFailed && entry.DlFailed {
		return true
	}

	filePath := filepath.Join(outputDir, entry.FileName)
	stat, err := os.Stat(filePath)

	return err == nil && stat.Mode().IsRegular()
}

type retryTask struct {
	contentURL string
	fileName   string
}

// RetryFailed re-downloads every archive entry of the target tag whose
// dl_failed mark is set.
func RetryFailed(target Target) error {
	log.Infof("retrying failed downloads: %s -> %s", target.Tag, target.OutputDir)

	if err := os.MkdirAll(target.OutputDir, 0o777); err != nil {
		return err
	}

	taskChan := make(chan retryTask, 100)
	go findFailedEntries(target, taskChan)

	collector, global := makeCollector(&target)

	bar := global.bar
	for task := range taskChan {
		changeProgressMax(bar, 1)

		contentURL := task.contentURL
		outputName := filepath.Join(target.OutputDir, task.fileName)
		newCtx := makeFileDownloadContext(global, outputName, contentURL, func(ok bool) {
			bar.Add(1)
			updateDlFailedMark(target.DB, contentURL, !ok)
		})

		collector.Request("GET", contentURL, nil, newCtx, nil)
	}

	collector.Wait()

	return nil
}

func findFailedEntries(target Target, taskChan chan retryTask) {
	defer close(taskChan)

	db := target.DB
	entry := &data_model.PostEntry{}

	rows, err := db.Model(entry).Where("tag = ? AND dl_failed = ?", target.Tag, true).Rows()
	if err != nil {
		log.Warnf("failed to query failed tasks for %s: %s", target.Tag, err)
		return
	}

	defer rows.Close()

	for rows.Next() {
		db.ScanRows(rows, entry)

		taskChan <- retryTask{
			contentURL: entry.ContentURL,
			fileName:   entry.FileName,
		}
	}
}
