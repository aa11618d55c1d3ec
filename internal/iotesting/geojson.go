package iotesting

// TestAOIGeoJSON is a FeatureCollection with one small valid polygon
// named "Test AOI".
const TestAOIGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"name": "Test AOI", "description": "test area"},
      "geometry": {
        "type": "Polygon",
        "coordinates": [[
          [29.0, -19.0], [29.1, -19.0], [29.1, -18.9],
          [29.0, -18.9], [29.0, -19.0]
        ]]
      }
    }
  ]
}`

// MixedGeoJSON has a valid polygon, a point, an oversized polygon and an
// unnamed multipolygon.
const MixedGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"DISTRICT": "Harare"},
      "geometry": {
        "type": "Polygon",
        "coordinates": [[
          [31.0, -17.9], [31.1, -17.9], [31.1, -17.8],
          [31.0, -17.8], [31.0, -17.9]
        ]]
      }
    },
    {
      "type": "Feature",
      "properties": {"name": "Well"},
      "geometry": {"type": "Point", "coordinates": [31.05, -17.85]}
    },
    {
      "type": "Feature",
      "properties": {"name": "Huge"},
      "geometry": {
        "type": "Polygon",
        "coordinates": [[
          [20.0, -20.0], [25.0, -20.0], [25.0, -15.0],
          [20.0, -15.0], [20.0, -20.0]
        ]]
      }
    },
    {
      "type": "Feature",
      "properties": {"id": 7},
      "geometry": {
        "type": "MultiPolygon",
        "coordinates": [
          [[[30.0, -18.0], [30.05, -18.0], [30.05, -17.95], [30.0, -17.95], [30.0, -18.0]]],
          [[[30.1, -18.0], [30.15, -18.0], [30.15, -17.95], [30.1, -17.95], [30.1, -18.0]]]
        ]
      }
    }
  ]
}`

// HugeGeoJSON is a single Feature above the default area ceiling.
const HugeGeoJSON = `{
  "type": "Feature",
  "properties": {"name": "Huge"},
  "geometry": {
    "type": "Polygon",
    "coordinates": [[
      [20.0, -20.0], [25.0, -20.0], [25.0, -15.0],
      [20.0, -15.0], [20.0, -20.0]
    ]]
  }
}`

// PointGeoJSON is a bare Point geometry.
const PointGeoJSON = `{"type": "Point", "coordinates": [31.05, -17.85]}`
