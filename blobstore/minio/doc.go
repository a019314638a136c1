// Package minio stores graphs and walk shards in MinIO or any other
// S3-compatible server through the MinIO Go client.
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "graphs", "karate/")
//	g, err := graph.Load(ctx, store, "edges.txt.gz", graph.WithDirected(false))
package minio
