// Package rapidapi talks to the youtube-mp36 conversion service hosted on
// RapidAPI.
//
// The service converts a YouTube video to MP3 asynchronously. A status
// request returns one of:
//
//	{"status":"ok","link":"https://...","title":"Song","duration":212.4,"msg":"success"}
//	{"status":"processing","msg":"in queue"}
//	{"status":"fail","msg":"Invalid Video Id"}
//
// The same request is repeated to check on a queued conversion.
//
// # Usage
//
//	client := rapidapi.NewClient(httpClient, rapidapi.DefaultEndpoint, rapidapi.DefaultHost)
//	resp, err := client.Status(ctx, "dQw4w9WgXcQ", apiKey)
//	if err != nil {
//	    return err
//	}
//	if resp.IsOK() {
//	    fmt.Println(resp.Link)
//	}
package rapidapi
