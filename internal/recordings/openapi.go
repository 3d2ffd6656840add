package recordings

import (
	"net/http"

	"github.com/JaimeStill/callvault/pkg/openapi"
)

// Schemas returns the component schemas referenced by the recording routes.
func Schemas() map[string]*openapi.Schema {
	str := func(desc string) *openapi.Schema { return &openapi.Schema{Type: "string", Description: desc} }
	num := func(desc string) *openapi.Schema { return &openapi.Schema{Type: "integer", Description: desc} }
	list := func(desc string) *openapi.Schema {
		return &openapi.Schema{Type: "array", Items: &openapi.Schema{Type: "string"}, Description: desc}
	}

	return map[string]*openapi.Schema{
		"RecordingRequest": {
			Type:     "object",
			Required: []string{"opco", "date", "username"},
			Properties: map[string]*openapi.Schema{
				"opco":         {Type: "string", Enum: []any{"CMP", "NYSEG", "RGE"}, Description: "Operating company"},
				"date":         {Type: "string", Example: "2024-03-05 14:07:09", Description: "Call start, yyyy-MM-dd HH:mm:ss"},
				"username":     str("Participant username"),
				"aniAliDigits": str("Calling line digits"),
				"duration":     num("Call duration in seconds"),
				"extensionNum": str("Extension number"),
				"channelNum":   num("Recorder channel"),
				"objectId":     {Type: "string", Format: "uuid", Description: "Recorder object ID"},
			},
		},
		"Resolved": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"key":        str("Storage key of the audio object"),
				"fileName":   str("Audio file name"),
				"ambiguous":  {Type: "boolean", Description: "More than one candidate matched; the first was used"},
				"candidates": num("Candidates left after filtering"),
				"documents":  num("Metadata documents scanned"),
			},
		},
		"SearchRequest": {
			Type:     "object",
			Required: []string{"opco", "from_date", "to_date"},
			Properties: map[string]*openapi.Schema{
				"opco":      str("Operating company"),
				"from_date": str("Inclusive lower bound, yyyy-MM-dd HH:mm:ss"),
				"to_date":   str("Inclusive upper bound, yyyy-MM-dd HH:mm:ss"),
				"page":      num("Page number (1-indexed)"),
				"page_size": num("Results per page"),
				"search":    str("Free-text match on file name, participant, calling line or agent"),
				"sort":      str("Comma-separated sort fields, - prefix for descending"),
				"filters": {
					Type: "object",
					Properties: map[string]*openapi.Schema{
						"file_name":      list("Any-of file name fragments"),
						"extension_num":  list("Any-of extension fragments"),
						"object_ids":     list("Any-of recorder object IDs"),
						"channel_num":    list("Any-of channel fragments"),
						"ani_ali_digits": list("Any-of calling line fragments"),
						"name":           list("Any-of participant name fragments"),
						"agent_id":       list("Any-of agent ID fragments"),
						"direction":      {Type: "boolean", Description: "Call direction"},
					},
				},
			},
		},
		"MetadataRequest": {
			Type:     "object",
			Required: []string{"opco", "file_name"},
			Properties: map[string]*openapi.Schema{
				"opco":      str("Operating company"),
				"file_name": str("Recorder file name"),
			},
		},
		"Recording": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"fileName":     str("Recorder file name"),
				"extensionNum": str("Extension number"),
				"objectId":     str("Recorder object ID"),
				"channelNum":   str("Recorder channel"),
				"aniAliDigits": str("Calling line digits"),
				"name":         str("Participant name"),
				"dateAdded":    {Type: "string", Format: "date-time"},
				"opco":         str("Operating company"),
				"agentID":      str("Agent ID"),
				"duration":     num("Call duration in seconds"),
				"direction":    {Type: "boolean"},
			},
		},
		"RecordingPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        openapi.ArrayOf("Recording"),
				"total":       num("Rows matching the search"),
				"page":        num("Page number"),
				"page_size":   num("Page size"),
				"total_pages": num("Number of pages"),
			},
		},
	}
}

func jsonOp(summary, request, response string, extra map[int]*openapi.Response) *openapi.Operation {
	responses := map[int]*openapi.Response{
		http.StatusOK:                    openapi.ResponseJSON("OK", response),
		http.StatusBadRequest:            openapi.ResponseRef("BadRequest"),
		http.StatusRequestEntityTooLarge: openapi.ResponseRef("TooLarge"),
	}
	for code, r := range extra {
		responses[code] = r
	}
	return &openapi.Operation{
		Summary:     summary,
		RequestBody: openapi.RequestBodyJSON(request, true),
		Responses:   responses,
	}
}

var (
	searchOp = jsonOp("Search the recordings catalog", "SearchRequest", "RecordingPage", map[int]*openapi.Response{
		http.StatusServiceUnavailable: openapi.ResponseRef("Unavailable"),
	})

	metadataOp = jsonOp("Look up one catalog row by file name", "MetadataRequest", "Recording", map[int]*openapi.Response{
		http.StatusNotFound:           openapi.ResponseRef("NotFound"),
		http.StatusServiceUnavailable: openapi.ResponseRef("Unavailable"),
	})

	resolveOp = jsonOp("Resolve a request to its storage key", "RecordingRequest", "Resolved", map[int]*openapi.Response{
		http.StatusNotFound:   openapi.ResponseRef("NotFound"),
		http.StatusBadGateway: openapi.ResponseRef("BadGateway"),
	})

	audioOp = &openapi.Operation{
		Summary:     "Deliver one recording as MP3",
		Description: "The X-Recording-Key header carries the resolved key; X-Recording-Ambiguous is true when several candidates matched.",
		RequestBody: openapi.RequestBodyJSON("RecordingRequest", true),
		Responses: map[int]*openapi.Response{
			http.StatusOK:                    openapi.ResponseBinary("MP3 attachment", "audio/mpeg"),
			http.StatusBadRequest:            openapi.ResponseRef("BadRequest"),
			http.StatusNotFound:              openapi.ResponseRef("NotFound"),
			http.StatusRequestEntityTooLarge: openapi.ResponseRef("TooLarge"),
			http.StatusBadGateway:            openapi.ResponseRef("BadGateway"),
			http.StatusGatewayTimeout:        openapi.ResponseRef("GatewayTimeout"),
			http.StatusInternalServerError:   openapi.ResponseRef("InternalFailure"),
		},
	}

	downloadOp = &openapi.Operation{
		Summary:     "Export a list of recordings as a ZIP archive",
		Description: "Each request is processed independently. The archive ends with status.json summarizing every request. 204 when nothing was exported.",
		RequestBody: &openapi.RequestBody{
			Required: true,
			Content: map[string]*openapi.MediaType{
				"application/json": {Schema: openapi.ArrayOf("RecordingRequest")},
			},
		},
		Responses: map[int]*openapi.Response{
			http.StatusOK:                    openapi.ResponseBinary("ZIP attachment", "application/zip"),
			http.StatusNoContent:             {Description: "No request produced audio"},
			http.StatusBadRequest:            openapi.ResponseRef("BadRequest"),
			http.StatusRequestEntityTooLarge: openapi.ResponseRef("TooLarge"),
			http.StatusInternalServerError:   openapi.ResponseRef("InternalFailure"),
		},
	}
)
