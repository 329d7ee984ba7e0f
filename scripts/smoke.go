package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Smoke-tests a running server: uploads a recording to /api/analyze, then
// feeds the result to /api/report and writes the PDF next to the recording.
//
//	go run scripts/smoke.go -server http://localhost:8080 -audio answer.wav
func main() {
	server := flag.String("server", "http://localhost:8080", "server base URL")
	audio := flag.String("audio", "", "path to an audio recording (required)")
	video := flag.String("video", "", "path to a video recording (optional)")
	username := flag.String("username", "Smoke Test", "username for the report")
	flag.Parse()

	if *audio == "" {
		flag.Usage()
		os.Exit(2)
	}

	client := &http.Client{Timeout: 5 * time.Minute}

	log.Println("🚀 Uploading recording...")
	result, err := analyze(client, *server, *audio, *video)
	if err != nil {
		log.Fatalf("analyze failed: %v", err)
	}
	log.Printf("✅ Analysis: overall=%v clarity=%v pace=%v confidence=%v",
		result["overall"], result["clarity"], result["pace"], result["confidence"])

	log.Println("📝 Requesting report...")
	pdfPath := filepath.Join(filepath.Dir(*audio), "smoke_report.pdf")
	if err := buildReport(client, *server, result, *username, pdfPath); err != nil {
		log.Fatalf("report failed: %v", err)
	}
	log.Printf("✅ Report written to %s", pdfPath)
}

func analyze(client *http.Client, server, audioPath, videoPath string) (map[string]any, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := attach(mw, "file", audioPath); err != nil {
		return nil, err
	}
	if videoPath != "" {
		if err := attach(mw, "video", videoPath); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	resp, err := client.Post(server+"/api/analyze", mw.FormDataContentType(), &body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, msg)
	}

	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return result, nil
}

func attach(mw *multipart.Writer, field, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	part, err := mw.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return err
	}
	_, err = io.Copy(part, f)
	return err
}

func buildReport(client *http.Client, server string, result map[string]any, username, outPath string) error {
	result["username"] = username
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}

	resp, err := client.Post(server+"/api/report", "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, msg)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return os.WriteFile(outPath, data, 0o644)
}
