package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/omshejul/cli-tools-frontend/cmd"
	"github.com/omshejul/cli-tools-frontend/config"
	"github.com/omshejul/cli-tools-frontend/progress"
	"github.com/omshejul/cli-tools-frontend/services"
	"github.com/omshejul/cli-tools-frontend/types"
)

func main() {
	var (
		mediaURL    string
		formatID    string
		audioOnly   bool
		listFormats bool
		server      bool
		port        int
	)

	flag.StringVar(&mediaURL, "url", "", "Media URL to download")
	flag.StringVar(&formatID, "format", "", "Format ID to request (see -formats)")
	flag.BoolVar(&audioOnly, "audio", false, "Extract audio only")
	flag.BoolVar(&listFormats, "formats", false, "List available formats for the URL and exit")
	flag.BoolVar(&server, "server", false, "Start in web server mode")
	flag.IntVar(&port, "port", 8080, "Port for web server mode")
	flag.Parse()

	// Server mode takes precedence
	if server {
		cmd.StartWebServer(port)
		return
	}

	if mediaURL == "" {
		flag.Usage()
		return
	}

	client := services.NewAPIClient(config.GetProcessorEndpoint())

	if listFormats {
		printFormats(client, mediaURL)
		return
	}

	if err := runDownload(client, mediaURL, formatID, audioOnly); err != nil {
		log.Fatalf("Error: %s", err)
	}
}

// printFormats lists the downloadable renditions of a media URL
func printFormats(client services.APIClient, mediaURL string) {
	formats, err := client.Formats(context.Background(), mediaURL)
	if err != nil {
		log.Fatalf("Error: %s", err)
	}

	fmt.Printf("%s\n\n", formats.Title)
	for _, f := range formats.Formats {
		line := fmt.Sprintf("  %-8s %-6s", f.FormatID, f.Ext)
		if f.Resolution != "" {
			line += fmt.Sprintf(" %-10s", f.Resolution)
		}
		if f.Note != "" {
			line += " " + f.Note
		}
		fmt.Println(line)
	}
}

// runDownload submits the URL for processing, follows progress over the
// streaming channel, and saves the finished file locally.
func runDownload(client services.APIClient, mediaURL, formatID string, audioOnly bool) error {
	ctx := context.Background()

	info, err := client.Info(ctx, mediaURL)
	if err != nil {
		return err
	}
	fmt.Printf("Downloading: %s\n", info.Title)

	channel := progress.NewChannel(client.BaseURL())
	defer channel.Disconnect()

	var bar *progressbar.ProgressBar
	done := make(chan types.ProgressEvent, 1)

	channel.OnProgress(func(event types.ProgressEvent) {
		switch event.Status {
		case types.StatusDownloading:
			if bar == nil && event.TotalBytes > 0 {
				bar = progressbar.DefaultBytes(event.TotalBytes, "downloading")
			}
			if bar != nil {
				bar.Set64(event.DownloadedBytes)
			}

		case types.StatusProcessing:
			if event.Message != "" {
				log.Printf("Processing: %s", event.Message)
			}

		case types.StatusComplete, types.StatusError:
			select {
			case done <- event:
			default:
			}

		case types.StatusLog:
			if event.Level == types.LogLevelWarning || event.Level == types.LogLevelError {
				log.Printf("[%s] %s", event.Level, event.Message)
			}
		}
	})

	connected := make(chan bool, 1)
	channel.OnConnectionChange(func(open bool) {
		select {
		case connected <- open:
		default:
		}
	})

	channel.Connect()
	select {
	case open := <-connected:
		if !open {
			return fmt.Errorf("could not reach processing service at %s", client.BaseURL())
		}
	case <-time.After(15 * time.Second):
		return fmt.Errorf("timed out connecting to processing service at %s", client.BaseURL())
	}

	resp, err := client.Download(ctx, types.DownloadRequest{
		URL:       mediaURL,
		FormatID:  formatID,
		ClientID:  channel.ClientID(),
		AudioOnly: audioOnly,
	})
	if err != nil {
		return err
	}
	if !resp.Accepted {
		return fmt.Errorf("download rejected: %s", resp.Message)
	}

	event := <-done
	if bar != nil {
		bar.Finish()
		fmt.Println()
	}

	if event.Status == types.StatusError {
		return fmt.Errorf("processing failed: %s", event.Message)
	}

	downloadPath := resp.DownloadPath
	if downloadPath == "" {
		downloadPath = "download/" + event.Filename
	}

	savedPath, err := client.FetchFile(ctx, downloadPath, config.GetSaveLocation())
	if err != nil {
		return err
	}
	fmt.Printf("Saved to %s\n", savedPath)

	if audioOnly {
		printAudioMetadata(savedPath)
	}

	return nil
}

// printAudioMetadata shows the tags of a saved audio download
func printAudioMetadata(path string) {
	metadata := services.NewFileService().ExtractAudioMetadata(path)
	if metadata == nil {
		return
	}

	if metadata.Artist != "" {
		fmt.Printf("  Artist: %s\n", metadata.Artist)
	}
	if metadata.Title != "" {
		fmt.Printf("  Title:  %s\n", metadata.Title)
	}
	if metadata.Album != "" {
		fmt.Printf("  Album:  %s\n", metadata.Album)
	}
}
